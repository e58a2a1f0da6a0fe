package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gridplay/internal/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridplay.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultParses(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded default: %v", err)
	}
	if cfg.Storage.DBPath == "" {
		t.Error("embedded default has no db path")
	}
	if c, ok := cfg.ColorFor('$'); !ok || c == "" {
		t.Error("embedded default has no colour for $")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name: "partial file keeps defaults",
			body: "play:\n  tick_delay_ms: 250\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.TickDelay() != 250*time.Millisecond {
					t.Errorf("TickDelay() = %v", cfg.TickDelay())
				}
				if cfg.Storage.DBPath != DefaultConfig().Storage.DBPath {
					t.Errorf("DBPath = %q", cfg.Storage.DBPath)
				}
				if occ, _ := cfg.Occlusion(); occ != render.Occluding {
					t.Errorf("Occlusion() = %v", occ)
				}
			},
		},
		{
			name: "colours merge",
			body: "colors:\n  \"@\": red\n",
			check: func(t *testing.T, cfg Config) {
				if c, _ := cfg.ColorFor('@'); c != "red" {
					t.Errorf("@ = %q", c)
				}
				if _, ok := cfg.ColorFor('#'); !ok {
					t.Error("default # colour lost")
				}
			},
		},
		{
			name: "unoccluded",
			body: "play:\n  occlusion: unoccluded\n",
			check: func(t *testing.T, cfg Config) {
				if occ, _ := cfg.Occlusion(); occ != render.Unoccluded {
					t.Errorf("Occlusion() = %v", occ)
				}
			},
		},
		{name: "bad occlusion", body: "play:\n  occlusion: sideways\n", wantErr: "occlusion"},
		{name: "bad colour key", body: "colors:\n  wall: red\n", wantErr: "single character"},
		{name: "negative delay", body: "play:\n  tick_delay_ms: -5\n", wantErr: "negative"},
		{name: "not yaml", body: "play: [", wantErr: "yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want it to mention %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing custom config")
	}
}

func TestTickDelayDisabled(t *testing.T) {
	if d := DefaultConfig().TickDelay(); d != 0 {
		t.Errorf("TickDelay() = %v, want 0", d)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[play]\ntick_delay_ms = 250\nshow_masks = true\n\n[colors]\n\"#\" = \"red\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := cfg.TickDelay(); got != 250*time.Millisecond {
		t.Errorf("TickDelay() = %v, want 250ms", got)
	}
	if !cfg.Play.ShowMasks {
		t.Error("show_masks not read")
	}
	if c, _ := cfg.ColorFor('#'); c != "red" {
		t.Errorf("colour for # = %q, want red", c)
	}
	if cfg.Storage.DBPath == "" {
		t.Error("db path should keep its default")
	}
}

func TestSearchPathsEndWithLocalConfig(t *testing.T) {
	paths := SearchPaths()
	if got := paths[len(paths)-1]; got != filepath.Join("configs", "gridplay.yaml") {
		t.Errorf("last search path = %q", got)
	}
}
