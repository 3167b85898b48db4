package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "SN-001 Flange DN50", want: "SN-001 Flange DN50"},
		{name: "backslash", in: `SN\001`, want: `SN\textbackslash{}001`},
		{name: "braces", in: "{A}", want: `\{A\}`},
		{name: "ampersand and percent", in: "C & Mn 0.5%", want: `C \& Mn 0.5\%`},
		{name: "hash and underscore", in: "Heat #4471_B", want: `Heat \#4471\_B`},
		{name: "dollar", in: "$12", want: `\$12`},
		{name: "caret and tilde", in: "10^3 ~ok", want: `10\textasciicircum{}3 \textasciitilde{}ok`},
		{name: "line breaks", in: "EN 10204\r\n3.1", want: "EN 10204 3.1"},
		{name: "unicode", in: "Prüfbescheinigung ≥ 3.1", want: "Prüfbescheinigung ≥ 3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}
