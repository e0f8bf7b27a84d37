package seed

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/teslashibe/go-camseed/pkg/frame"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names the hash used to condense canonical bytes.
type Algorithm string

const (
	// SHA256 is the default. Golden values are pinned against it.
	SHA256 Algorithm = "sha256"
	// BLAKE2b256 is BLAKE2b with a 32-byte digest, unkeyed.
	BLAKE2b256 Algorithm = "blake2b-256"
)

// Algorithms lists every supported hash.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, BLAKE2b256}
}

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE2b256, "blake2b":
		return BLAKE2b256, nil
	default:
		return "", fmt.Errorf("seed: unknown algorithm %q", name)
	}
}

// Condenser turns frames into seeds with a fixed hash algorithm.
// The zero value is not usable; use New or Default.
type Condenser struct {
	algorithm Algorithm
	newHash   func() hash.Hash
}

// Option configures a Condenser.
type Option func(*Condenser)

// WithAlgorithm selects the hash. Unknown algorithms make New fail.
func WithAlgorithm(a Algorithm) Option {
	return func(c *Condenser) { c.algorithm = a }
}

// New creates a Condenser. Without options it uses SHA-256.
func New(opts ...Option) (*Condenser, error) {
	c := &Condenser{algorithm: SHA256}
	for _, opt := range opts {
		opt(c)
	}

	switch c.algorithm {
	case SHA256:
		c.newHash = sha256.New
	case BLAKE2b256:
		c.newHash = newBLAKE2b256
	default:
		return nil, fmt.Errorf("seed: unknown algorithm %q", c.algorithm)
	}
	return c, nil
}

var defaultCondenser = &Condenser{algorithm: SHA256, newHash: sha256.New}

// Default returns the shared SHA-256 condenser.
func Default() *Condenser {
	return defaultCondenser
}

// Algorithm reports the hash this condenser uses.
func (c *Condenser) Algorithm() Algorithm {
	return c.algorithm
}

// Serialize emits the canonical byte sequence of a frame: pixels row-major,
// channels in the order the format declares, no padding and no metadata.
// Only RGB8 and RGBA8 frames can be serialized.
func (c *Condenser) Serialize(f frame.RawFrame) ([]byte, error) {
	switch f.Format {
	case frame.RGB8, frame.RGBA8:
	default:
		return nil, fmt.Errorf("%w: cannot condense %q", frame.ErrUnsupportedFormat, string(f.Format))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	// Single-byte channels are already in canonical order; copy so the
	// caller keeps exclusive ownership of its buffer.
	out := make([]byte, len(f.Pix))
	copy(out, f.Pix)
	return out, nil
}

// Condense hashes canonical bytes into a Seed. It never fails; empty input
// yields the digest of the empty message.
func (c *Condenser) Condense(canonical []byte) Seed {
	h := c.newHash()
	h.Write(canonical)

	var s Seed
	h.Sum(s[:0])
	return s
}

// DeriveSeed serializes the frame and condenses the result.
func (c *Condenser) DeriveSeed(f frame.RawFrame) (Seed, error) {
	canonical, err := c.Serialize(f)
	if err != nil {
		return Seed{}, err
	}
	return c.Condense(canonical), nil
}

// Serialize runs Default().Serialize.
func Serialize(f frame.RawFrame) ([]byte, error) {
	return defaultCondenser.Serialize(f)
}

// Condense runs Default().Condense.
func Condense(canonical []byte) Seed {
	return defaultCondenser.Condense(canonical)
}

// DeriveSeed runs Default().DeriveSeed.
func DeriveSeed(f frame.RawFrame) (Seed, error) {
	return defaultCondenser.DeriveSeed(f)
}

func newBLAKE2b256() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}
