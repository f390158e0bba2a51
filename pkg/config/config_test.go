package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/callsurface/pkg/cache"
	"github.com/matzehuels/callsurface/pkg/errors"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	cfg := Default()

	if cfg.Surface.Width != 390 || cfg.Surface.BottomInset != 34 || !cfg.Surface.Animated {
		t.Errorf("Surface = %+v, want 390/34/animated", cfg.Surface)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if want := filepath.Join("/tmp/xdg-cache", AppName); cfg.Cache.Dir != want {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestParseOverridesOnlyPresentKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
[surface]
width = 320

[cache]
backend = "redis"
prefix = "staging"
redis = { addr = "cache:6379", db = 2 }
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Surface.Width != 320 {
		t.Errorf("Width = %v, want 320", cfg.Surface.Width)
	}
	if cfg.Surface.BottomInset != 34 || !cfg.Surface.Animated {
		t.Errorf("Surface = %+v, want untouched inset and animation", cfg.Surface)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.Addr != "cache:6379" || cfg.Cache.Redis.DB != 2 || cfg.Cache.Prefix != "staging" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", `[surface`, errors.ErrCodeInvalidInput},
		{"unknown key", "[surface]\nheight = 3", errors.ErrCodeInvalidInput},
		{"width", "[surface]\nwidth = 0", errors.ErrCodeInvalidWidth},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"rotation", "[log]\nmax_backups = -1", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode(Parse()) = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Surface.Width != 390 {
		t.Errorf("Width = %v, want default", cfg.Surface.Width)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if want := "/etc/xdg/callsurface/config.toml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestOptionsAndCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strings.toml")
	if err := os.WriteFile(path, []byte("lang = \"de\"\n[strings]\n\"Call.YourMicrophoneOff\" = \"Dein Mikrofon ist aus\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Surface.Animated = false
	cfg.Strings = path

	opts := cfg.Options()
	if !opts.Immediate || opts.Width != 390 || *opts.BottomInset != 34 {
		t.Errorf("Options() = %+v", opts)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if got := cat.String("Call.YourMicrophoneOff"); got != "Dein Mikrofon ist aus" {
		t.Errorf("String() = %q, want German", got)
	}
}
