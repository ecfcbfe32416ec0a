package messenger

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "0912", max: 8, want: "0912"},
		{name: "exact", in: "abcd", max: 4, want: "abcd"},
		{name: "long", in: "abcdef", max: 4, want: "abc…"},
		{name: "multibyte", in: "علی رضایی", max: 4, want: "علی…"},
		{name: "no limit", in: "abcdef", max: 0, want: "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clip(tt.in, tt.max))
		})
	}
}

func TestChunk(t *testing.T) {
	t.Run("fits in one message", func(t *testing.T) {
		assert.Equal(t, []string{"head\na\nb"}, Chunk("head", []string{"a", "b"}, 100))
	})

	t.Run("splits on line boundaries", func(t *testing.T) {
		lines := make([]string, 50)
		for i := range lines {
			lines[i] = strings.Repeat("x", 30)
		}
		chunks := Chunk("head", lines, 100)
		require.Greater(t, len(chunks), 1)
		assert.True(t, strings.HasPrefix(chunks[0], "head\n"))

		var total int
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100)
			total += strings.Count(c, strings.Repeat("x", 30))
		}
		assert.Equal(t, 50, total)
	})

	t.Run("cuts an oversized line on a rune boundary", func(t *testing.T) {
		chunks := Chunk("", []string{strings.Repeat("ی", 100)}, 51)
		require.Len(t, chunks, 1)
		assert.LessOrEqual(t, len(chunks[0]), 51)
		assert.True(t, utf8.ValidString(chunks[0]))
	})
}
