package seed

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseHex_RoundTrip(t *testing.T) {
	s := Condense([]byte("camseed"))
	got, err := ParseHex(s.String())
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch: %s vs %s", got, s)
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "abcd", goldenSHA256 + "00", "zz" + goldenSHA256[2:]} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q) err = %v, want ErrInvalidHex", in, err)
		}
	}
}

func TestSeed_JSON(t *testing.T) {
	s, _ := ParseHex(goldenSHA256)
	data, err := json.Marshal(struct {
		Seed Seed `json:"seed"`
	}{s})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"seed":"`+goldenSHA256+`"}` {
		t.Errorf("json = %s", data)
	}

	var back struct {
		Seed Seed `json:"seed"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Seed != s {
		t.Error("json round trip mismatch")
	}
}

func TestSeed_Sum(t *testing.T) {
	var s Seed
	for i := range s {
		s[i] = 1
	}
	if s.Sum() != Size {
		t.Errorf("Sum = %d, want %d", s.Sum(), Size)
	}
	s[0] = 255
	if s.Sum() != Size-1+255 {
		t.Errorf("Sum = %d", s.Sum())
	}
}

func TestSeed_RandReproducible(t *testing.T) {
	s, _ := ParseHex(goldenSHA256)
	a, b := s.Rand(), s.Rand()
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(10), b.IntN(10); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}

	other := Condense([]byte("other")).Rand()
	c := s.Rand()
	same := 0
	for i := 0; i < 64; i++ {
		if c.Uint64() == other.Uint64() {
			same++
		}
	}
	if same == 64 {
		t.Error("different seeds produced identical streams")
	}
}

func TestSeed_BytesIsCopy(t *testing.T) {
	s, _ := ParseHex(goldenSHA256)
	b := s.Bytes()
	b[0] ^= 0xff
	if s.String() != goldenSHA256 {
		t.Error("Bytes returned an alias")
	}
}
