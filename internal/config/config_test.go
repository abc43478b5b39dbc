package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmLog "github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/checkoff.db")
	if cfg.Database.Path != "/tmp/checkoff.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if !cfg.Confirm.DeleteActive || !cfg.Confirm.DeleteCompleted {
		t.Fatal("expected delete confirmations enabled by default")
	}
	if !cfg.UI.ShowHistory || cfg.UI.ShowTimestamps {
		t.Fatalf("unexpected ui defaults %#v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/checkoff.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != defaults.Database.Path {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/custom/checkoff.db"

[logging]
level = "debug"

[logging.dev_file]
enabled = false
dir = "/var/log/checkoff"

[confirm]
delete_completed = false

[ui]
show_history = false
show_timestamps = true

[keys]
toggle = "x"
copy = "c"
`)
	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/checkoff.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != charmLog.DebugLevel {
		t.Fatalf("LogLevel() = %v, %v", level, err)
	}
	if cfg.Logging.DevFile.Enabled || cfg.Logging.DevFile.Dir != "/var/log/checkoff" {
		t.Fatalf("unexpected dev file config %#v", cfg.Logging.DevFile)
	}
	if !cfg.Confirm.DeleteActive || cfg.Confirm.DeleteCompleted {
		t.Fatalf("unexpected confirm config %#v", cfg.Confirm)
	}
	if cfg.UI.ShowHistory || !cfg.UI.ShowTimestamps {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if cfg.Keys.Toggle != "x" || cfg.Keys.Copy != "c" || cfg.Keys.Add != "a" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad level",
			content: "[logging]\nlevel = \"loud\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "blank database",
			content: "[database]\npath = \"  \"\n",
			wantErr: "database path",
		},
		{
			name:    "conflicting keys",
			content: "[keys]\nedit = \"d\"\n",
			wantErr: "conflicts",
		},
		{
			name:    "space spellings conflict",
			content: "[keys]\ncopy = \"space\"\n",
			wantErr: "conflicts",
		},
		{
			name:    "reserved key",
			content: "[keys]\nadd = \"q\"\n",
			wantErr: "reserved",
		},
		{
			name:    "malformed toml",
			content: "[keys\n",
			wantErr: "decode toml",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content), Default("/tmp/default.db"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAllowsUppercaseDistinctKey(t *testing.T) {
	cfg := Default("/tmp/checkoff.db")
	cfg.Keys.Edit = "D"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
