// Package shortid issues and validates the 8-character public identifiers
// that name short links.
package shortid

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	Length   = 8
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Generator produces candidate identifiers. Uniqueness is enforced by storage.
type Generator interface {
	Generate() (string, error)
}

// Random draws identifiers from a cryptographically strong source.
type Random struct {
	src io.Reader
}

// NewRandom returns a generator backed by crypto/rand.
func NewRandom() *Random {
	return &Random{src: rand.Reader}
}

var _ Generator = (*Random)(nil)

func (g *Random) Generate() (string, error) {
	return generate(g.src)
}

// Generate is a convenience wrapper around the crypto/rand generator.
func Generate() (string, error) {
	return generate(rand.Reader)
}

func generate(src io.Reader) (string, error) {
	alphaLen := len(Alphabet)
	// bytes at or above cutoff would bias the modulo.
	cutoff := (256 / alphaLen) * alphaLen

	out := make([]byte, Length)
	filled := 0

	var buf [32]byte
	for filled < Length {
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			return "", fmt.Errorf("rand read: %w", err)
		}

		for _, b := range buf {
			if filled >= Length {
				break
			}

			if int(b) >= cutoff {
				continue
			}

			out[filled] = Alphabet[int(b)%alphaLen]
			filled++
		}
	}

	return string(out), nil
}

// IsValid reports whether s is exactly Length characters of [0-9A-Za-z].
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}

	return true
}

func isAlnum(c byte) bool {
	return ('0' <= c && c <= '9') || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}
