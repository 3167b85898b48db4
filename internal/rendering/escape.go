package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in cell text.
// Special characters: \ { } $ & % # ^ _ ~ ; line breaks become spaces.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{', '}', '$', '&', '%', '#', '_':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '\r':
		case '\n', '\t':
			result.WriteByte(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
