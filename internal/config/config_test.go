package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr string
	}{
		{
			name:  "empty document",
			input: "",
			want:  Config{},
		},
		{
			name:  "all fields",
			input: "warn_shadowing: true\nstrict_prefix_lvalue: true\nmax_errors: 5\ntrace: true\n",
			want:  Config{WarnShadowing: true, StrictPrefixLvalue: true, MaxErrors: 5, Trace: true},
		},
		{
			name:  "partial",
			input: "max_errors: 1\n",
			want:  Config{MaxErrors: 1},
		},
		{
			name:    "unknown key",
			input:   "warn_shadow: true\n",
			wantErr: "field warn_shadow not found",
		},
		{
			name:    "negative limit",
			input:   "max_errors: -1\n",
			wantErr: "max_errors must not be negative",
		},
		{
			name:    "wrong type",
			input:   "trace: [1]\n",
			wantErr: "parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				be.Err(t, err, tt.wantErr)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, *cfg, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sema.yaml")
	if err := os.WriteFile(path, []byte("strict_prefix_lvalue: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	be.Err(t, err, nil)
	opts := cfg.Options()
	be.True(t, opts.StrictPrefixLvalue)
	be.True(t, !opts.WarnShadowing)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	be.Err(t, err, "config: open")

	_, err = Load("")
	be.Err(t, err, "empty path")
}
