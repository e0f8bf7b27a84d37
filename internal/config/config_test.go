package config

import (
	"testing"
	"time"

	"github.com/teslashibe/go-camseed/pkg/acquire"
	"github.com/teslashibe/go-camseed/pkg/seed"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "auto" || cfg.Device != 0 || cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected capture defaults: %+v", cfg)
	}
	if cfg.Algorithm != "sha256" || cfg.Addr != ":8080" || cfg.StreamInterval != 2*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CAMSEED_BACKEND", "file")
	t.Setenv("CAMSEED_IMAGE", "/tmp/frame.png")
	t.Setenv("CAMSEED_DEVICE", "2")
	t.Setenv("CAMSEED_TIMEOUT", "750ms")
	t.Setenv("CAMSEED_ALGORITHM", "blake2b-256")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	acq := cfg.Acquire()
	if acq.Backend != acquire.BackendFile || acq.Path != "/tmp/frame.png" || acq.Device != 2 {
		t.Errorf("unexpected acquire config: %+v", acq)
	}
	if acq.Timeout != 750*time.Millisecond {
		t.Errorf("timeout = %v", acq.Timeout)
	}

	c, err := cfg.Condenser()
	if err != nil {
		t.Fatalf("Condenser: %v", err)
	}
	if c.Algorithm() != seed.BLAKE2b256 {
		t.Errorf("algorithm = %s", c.Algorithm())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown algorithm", "CAMSEED_ALGORITHM", "md5"},
		{"unknown backend", "CAMSEED_BACKEND", "v4l9"},
		{"zero timeout", "CAMSEED_TIMEOUT", "0s"},
		{"unparsable timeout", "CAMSEED_TIMEOUT", "soon"},
		{"zero interval", "CAMSEED_STREAM_INTERVAL", "0s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
