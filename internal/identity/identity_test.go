package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "  james izquierdo ", want: "JAMES IZQUIERDO"},
		{input: "James\t  Izquierdo", want: "JAMES IZQUIERDO"},
		{input: "José Pérez", want: "JOSÉ PÉREZ"},
		{input: "Jose\u0301 Pe\u0301rez", want: "JOSÉ PÉREZ"},
		{input: "1042", want: "1042"},
		{input: "   ", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Canonical(tc.input), "input %q", tc.input)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal("ana ruiz", " ANA  RUIZ"))
	assert.False(t, Equal("ANA RUIZ", "ANA RUIZ GOMEZ"))
}
