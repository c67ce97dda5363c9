package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"typemirror/internal/trace"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, c Config)
		wantErr error
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			check: func(t *testing.T, c Config) {
				if c != Default() {
					t.Fatalf("got %+v, want defaults", c)
				}
			},
		},
		{
			name: "overrides",
			input: `
[equality]
annotations = true

[closure]
cache_size = 16
dedup_type_vars = true

[trace]
level = "detail"
mode = "stream"
`,
			check: func(t *testing.T, c Config) {
				if !c.Equality.Annotations || c.Closure.CacheSize != 16 || !c.Closure.DedupTypeVars {
					t.Fatalf("unexpected config %+v", c)
				}
				if c.Trace.Level != "detail" || c.Trace.Mode != "stream" || c.Trace.RingSize != 4096 {
					t.Fatalf("unexpected trace config %+v", c.Trace)
				}
			},
		},
		{
			name:    "unknown key",
			input:   "[closure]\nsize = 3\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "zero cache",
			input:   "[closure]\ncache_size = 0\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "bad level",
			input:   "[trace]\nlevel = \"loud\"\n",
			wantErr: ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestTraceConfig(t *testing.T) {
	c := Default()
	c.Trace.Level = "debug"
	c.Trace.Mode = "both"
	tc, err := c.TraceConfig()
	if err != nil {
		t.Fatalf("TraceConfig: %v", err)
	}
	if tc.Level != trace.LevelDebug || tc.Mode != trace.ModeBoth || tc.OutputPath != "-" {
		t.Fatalf("unexpected trace config %+v", tc)
	}
}

func TestLoadFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFrom(nested)
	if err != nil {
		t.Fatalf("LoadFrom without file: %v", err)
	}
	if c != Default() {
		t.Fatalf("expected defaults without a config file")
	}

	data := []byte("[closure]\ncache_size = 8\n")
	if err := os.WriteFile(filepath.Join(root, FileName), data, 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = LoadFrom(nested)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if c.Closure.CacheSize != 8 {
		t.Fatalf("cache size = %d, want 8", c.Closure.CacheSize)
	}
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[trace]\nring_size = -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load error = %v, want ErrInvalid", err)
	}
}
