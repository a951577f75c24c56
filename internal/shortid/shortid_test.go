package shortid

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var idRe = regexp.MustCompile(`^[0-9A-Za-z]{8}$`)

func TestGenerate_Format(t *testing.T) {
	g := NewRandom()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id, err := g.Generate()
		require.NoError(t, err)
		require.Regexp(t, idRe, id)
		require.True(t, IsValid(id))

		seen[id] = struct{}{}
	}

	// 62^8 values; 1000 draws colliding would point at a broken source.
	require.Len(t, seen, 1000)
}

func TestGenerate_SkipsBiasedBytes(t *testing.T) {
	// 248 is the first byte above the unbiased cutoff for a 62-symbol alphabet.
	src := append(bytes.Repeat([]byte{255, 248}, 12), bytes.Repeat([]byte{0, 1, 61, 62}, 2)...)
	src = append(src, make([]byte, 64)...)

	id, err := generate(bytes.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "01z001z0", id)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy gone") }

func TestGenerate_SourceError(t *testing.T) {
	g := &Random{src: failingReader{}}

	_, err := g.Generate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "entropy gone")
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"ok/digits", "01234567", true},
		{"ok/mixed", "aB3dE6gH", true},

		{"bad/empty", "", false},
		{"bad/seven_chars", "abcdefg", false},
		{"bad/nine_chars", "abcdefghi", false},
		{"bad/bang", "abcdefg!", false},
		{"bad/dash", "abcd-efg", false},
		{"bad/underscore", "abcd_efg", false},
		{"bad/space", "abcd efg", false},
		{"bad/unicode", "abcdefgé", false},
		{"bad/long", strings.Repeat("a", 32), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ok, IsValid(tc.in))
		})
	}
}
