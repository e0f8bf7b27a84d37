package seed

import (
	"bytes"
	"errors"
	"math"
	"math/bits"
	"sync"
	"testing"

	"github.com/teslashibe/go-camseed/pkg/frame"
)

// Red, green, blue and white pixels in a 2x2 grid.
func scenarioA() frame.RawFrame {
	return frame.RawFrame{
		Width:  2,
		Height: 2,
		Format: frame.RGB8,
		Pix:    []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255},
	}
}

const (
	goldenSHA256  = "6733cdd08e5c7ef0453e2759ef0d28fbd43ea2aa7883b55422a13dac38e23ecc"
	goldenBLAKE2b = "5709df6075d70cd0898cdb4b1e7cfdb91da41989e97ec44c5c3e8c300d0d01de"
	emptySHA256   = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func bitDistance(a, b Seed) int {
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n
}

func TestSerialize_ScenarioA(t *testing.T) {
	got, err := Serialize(scenarioA())
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	want := []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("canonical = %v, want %v", got, want)
	}
}

func TestSerialize_DoesNotAliasInput(t *testing.T) {
	f := scenarioA()
	got, err := Serialize(f)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	got[0] = 0
	if f.Pix[0] != 255 {
		t.Error("mutating canonical bytes changed the frame buffer")
	}
}

func TestSerialize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		frame frame.RawFrame
		err   error
	}{
		{
			name:  "one byte short",
			frame: frame.RawFrame{Width: 2, Height: 2, Format: frame.RGB8, Pix: make([]byte, 11)},
			err:   frame.ErrMalformedFrame,
		},
		{
			name:  "rgba length for rgb frame",
			frame: frame.RawFrame{Width: 2, Height: 2, Format: frame.RGB8, Pix: make([]byte, 16)},
			err:   frame.ErrMalformedFrame,
		},
		{
			name:  "dimensions overflow",
			frame: frame.RawFrame{Width: math.MaxInt/2 + 1, Height: 4, Format: frame.RGB8},
			err:   frame.ErrMalformedFrame,
		},
		{
			name:  "zero dimension",
			frame: frame.RawFrame{Width: 0, Height: 0, Format: frame.RGBA8},
			err:   frame.ErrMalformedFrame,
		},
		{
			name:  "yuv not condensable",
			frame: frame.RawFrame{Width: 2, Height: 2, Format: frame.YUV, Pix: make([]byte, 8)},
			err:   frame.ErrUnsupportedFormat,
		},
		{
			name:  "unknown format",
			frame: frame.RawFrame{Width: 1, Height: 1, Format: "cmyk8", Pix: make([]byte, 4)},
			err:   frame.ErrUnsupportedFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Serialize(tc.frame); !errors.Is(err, tc.err) {
				t.Errorf("Serialize err = %v, want %v", err, tc.err)
			}
			if _, err := DeriveSeed(tc.frame); !errors.Is(err, tc.err) {
				t.Errorf("DeriveSeed err = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestDeriveSeed_Golden(t *testing.T) {
	s, err := DeriveSeed(scenarioA())
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}
	if s.String() != goldenSHA256 {
		t.Errorf("seed = %s, want %s", s, goldenSHA256)
	}
}

func TestDeriveSeed_GoldenBLAKE2b(t *testing.T) {
	c, err := New(WithAlgorithm(BLAKE2b256))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s, err := c.DeriveSeed(scenarioA())
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}
	if s.String() != goldenBLAKE2b {
		t.Errorf("seed = %s, want %s", s, goldenBLAKE2b)
	}
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	f := scenarioA()
	a, err := DeriveSeed(f)
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}
	b, err := DeriveSeed(f)
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}
	if a != b {
		t.Errorf("seeds differ: %s vs %s", a, b)
	}
}

func TestDeriveSeed_ScenarioB(t *testing.T) {
	a, _ := DeriveSeed(scenarioA())

	f := scenarioA()
	f.Pix[9] = 254
	b, err := DeriveSeed(f)
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}

	d := bitDistance(a, b)
	if d < Size*8*40/100 {
		t.Errorf("only %d of %d bits differ", d, Size*8)
	}
}

func TestDeriveSeed_Avalanche(t *testing.T) {
	const w, h = 8, 8
	base := frame.RawFrame{Width: w, Height: h, Format: frame.RGBA8, Pix: make([]byte, w*h*4)}
	for i := range base.Pix {
		base.Pix[i] = byte(i * 7)
	}
	ref, err := DeriveSeed(base)
	if err != nil {
		t.Fatalf("DeriveSeed failed: %v", err)
	}

	total := 0
	trials := 0
	for i := range base.Pix {
		f := base
		f.Pix = append([]byte(nil), base.Pix...)
		f.Pix[i] ^= 1 << (i % 8)

		s, err := DeriveSeed(f)
		if err != nil {
			t.Fatalf("DeriveSeed failed: %v", err)
		}
		total += bitDistance(ref, s)
		trials++
	}

	mean := float64(total) / float64(trials*Size*8)
	if mean < 0.45 || mean > 0.55 {
		t.Errorf("mean bit difference %.3f outside [0.45, 0.55]", mean)
	}
}

func TestDeriveSeed_FixedWidth(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 7}, {64, 48}}
	for _, c := range []*Condenser{Default(), mustNew(t, BLAKE2b256)} {
		for _, sz := range sizes {
			f := frame.RawFrame{Width: sz[0], Height: sz[1], Format: frame.RGB8, Pix: make([]byte, sz[0]*sz[1]*3)}
			s, err := c.DeriveSeed(f)
			if err != nil {
				t.Fatalf("%s %dx%d: %v", c.Algorithm(), sz[0], sz[1], err)
			}
			if len(s.Bytes()) != Size {
				t.Errorf("%s %dx%d: seed width %d", c.Algorithm(), sz[0], sz[1], len(s.Bytes()))
			}
		}
	}
}

func TestDeriveSeed_HashesPixelsOnly(t *testing.T) {
	// Same buffer declared as 4x1 RGB8 and as 3x1 RGBA8.
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	rgb, err := DeriveSeed(frame.RawFrame{Width: 4, Height: 1, Format: frame.RGB8, Pix: pix})
	if err != nil {
		t.Fatalf("rgb: %v", err)
	}
	rgba, err := DeriveSeed(frame.RawFrame{Width: 3, Height: 1, Format: frame.RGBA8, Pix: pix})
	if err != nil {
		t.Fatalf("rgba: %v", err)
	}
	// Canonical bytes are identical, so the seeds are too.
	if rgb != rgba {
		t.Errorf("expected identical seeds for identical canonical bytes")
	}
}

func TestCondense_Empty(t *testing.T) {
	if got := Condense(nil).String(); got != emptySHA256 {
		t.Errorf("Condense(nil) = %s, want %s", got, emptySHA256)
	}
	if Condense([]byte{}) != Condense(nil) {
		t.Error("empty slice and nil should condense identically")
	}
}

func TestCondenser_Concurrent(t *testing.T) {
	want, _ := DeriveSeed(scenarioA())

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := DeriveSeed(scenarioA())
			if err != nil || s != want {
				errs <- "concurrent derive mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	if _, err := New(WithAlgorithm("md5")); err == nil {
		t.Fatal("expected error for md5")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
		ok   bool
	}{
		{"", SHA256, true},
		{"sha256", SHA256, true},
		{"blake2b", BLAKE2b256, true},
		{"blake2b-256", BLAKE2b256, true},
		{"crc32", "", false},
	}
	for _, tc := range tests {
		got, err := ParseAlgorithm(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseAlgorithm(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseAlgorithm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func mustNew(t *testing.T, a Algorithm) *Condenser {
	t.Helper()
	c, err := New(WithAlgorithm(a))
	if err != nil {
		t.Fatalf("New(%s): %v", a, err)
	}
	return c
}
