package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextCanonicalizes(t *testing.T) {
	cases := map[string]string{
		"  identifica  riesgos   LABORALES ": "IDENTIFICA RIESGOS LABORALES",
		"Diseño Curricular":                  "DISENO CURRICULAR",
		"programación":                       "PROGRAMACION",
		"":                                   "",
		"   ":                                "",
		"ÁÉÍÓÚ üñ":                           "AEIOU UN",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, Text(input), "input %q", input)
	}
}

func TestTextIdempotent(t *testing.T) {
	once := Text("Aplicación  de   Técnicas")
	assert.Equal(t, once, Text(once))
}

func TestTokensDropShortWords(t *testing.T) {
	tokens := Tokens(Text("Identifica los riesgos de la obra"))
	assert.Equal(t, []string{"IDENTIFICA", "RIESGOS", "OBRA"}, tokens)
}

func TestSharedTokens(t *testing.T) {
	a := Tokens(Text("identifica riesgos laborales"))
	b := Tokens(Text("RIESGOS laborales en obra"))
	assert.Equal(t, 2, SharedTokens(a, b))

	assert.Zero(t, SharedTokens(nil, b))
	assert.Zero(t, SharedTokens(a, nil))
}
