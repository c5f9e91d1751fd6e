package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":                `{"a":1}`,
		"Here you go:\n```\n{\"b\":2}\n```\nBye": `{"b":2}`,
		`{"c":{"d":3}}`:                          `{"c":{"d":3}}`,
		"prefix {\"e\":4} suffix":                `{"e":4}`,
		"no json here":                           "",
		"} backwards {":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractJSON(in), in)
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	g, err := NewGemini(context.Background(), "", "gemini-1.5-flash")
	require.Error(t, err)
	assert.Nil(t, g)
	assert.NoError(t, g.Close())
}
