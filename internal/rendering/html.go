package rendering

import (
	"html/template"
	"strings"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4 landscape; margin: 10mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 8pt; }
  h1 { font-size: 10pt; margin: 0 0 6px 0; }
  table { border-collapse: collapse; width: 100%; table-layout: fixed; }
  td { border: 1px solid #999; padding: 2px 4px; overflow-wrap: anywhere; }
  tr.hl td { background: #{{.Color}}; }
</style>
</head>
<body>
<h1>{{.Title}} ({{.Sheet}})</h1>
<table>
{{- range $i, $row := .Rows}}
<tr{{if eq $i $.Highlight}} class="hl"{{end}}>{{range $row}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`

var excerptHTML = template.Must(template.New("excerpt").Parse(htmlTemplate))

type htmlData struct {
	Title     string
	Sheet     string
	Rows      [][]string
	Highlight int
	Color     string
}

// RenderHTML renders the table as a standalone HTML page with the highlighted row filled.
func RenderHTML(table *Table) (string, error) {
	var sb strings.Builder
	err := excerptHTML.Execute(&sb, htmlData{
		Title:     table.Title,
		Sheet:     table.Sheet,
		Rows:      table.Padded(),
		Highlight: table.Highlight,
		Color:     HighlightColor,
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return sb.String(), nil
}
