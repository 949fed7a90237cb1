package loom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.toml")
	body := `
[window]
title = "demo"
width = 1280

[scroll]
decay = 0.9
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Window.Title != "demo" || cfg.Window.Width != 1280 {
		t.Errorf("window = %+v", cfg.Window)
	}
	approx(t, "decay", cfg.Scroll.Decay, 0.9)
	// Untouched sections keep defaults.
	if cfg.Input.DoubleTapMs != DefaultConfig().Input.DoubleTapMs {
		t.Errorf("input defaults lost: %+v", cfg.Input)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed toml", "[window\ntitle=", "parsing"},
		{"negative window", "[window]\nwidth = -100.0\nheight = 10.0", "invalid"},
		{"decay out of range", "[scroll]\ndecay = 1.5", "invalid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "loom.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("bad config accepted")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.toml")
	orig := DefaultConfig()
	orig.Window.Title = "saved"
	if err := orig.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if back != orig {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", back, orig)
	}
}
