// Package seed condenses a captured frame into a fixed-width PRNG seed.
//
// The pipeline is RawFrame -> canonical bytes -> cryptographic hash -> Seed.
// Everything here is pure: no I/O, no clocks, no hidden randomness, and no
// state shared between calls. A Condenser may be used from any number of
// goroutines at once.
package seed

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
)

// Size is the width of a Seed in bytes.
const Size = 32

// ErrInvalidHex is returned by ParseHex for input that is not 64 hex digits.
var ErrInvalidHex = errors.New("seed: invalid hex seed")

// Seed is the condensed entropy of one frame.
type Seed [Size]byte

// String returns the lowercase hex encoding of the seed.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// Bytes returns a copy of the seed as a slice.
func (s Seed) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, s[:])
	return b
}

// Sum adds up the seed bytes. It is a short human-readable fingerprint,
// not a replacement for the seed itself.
func (s Seed) Sum() int {
	total := 0
	for _, b := range s {
		total += int(b)
	}
	return total
}

// Rand returns a ChaCha8 generator keyed with the seed. Two generators built
// from the same seed produce the same stream.
func (s Seed) Rand() *rand.Rand {
	return rand.New(rand.NewChaCha8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseHex decodes a seed printed by String.
func ParseHex(s string) (Seed, error) {
	var out Seed
	if hex.DecodedLen(len(s)) != Size {
		return out, fmt.Errorf("%w: want %d hex digits, got %d", ErrInvalidHex, Size*2, len(s))
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return out, nil
}
