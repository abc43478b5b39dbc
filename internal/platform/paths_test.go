package platform

import (
	"path/filepath"
	"testing"
)

func TestPathsFor(t *testing.T) {
	cases := []struct {
		name       string
		goos       string
		env        map[string]string
		configBase string
		dataBase   string
		wantConfig string
		wantData   string
	}{
		{
			name:       "linux xdg overrides",
			goos:       "linux",
			env:        map[string]string{"XDG_CONFIG_HOME": "/xdg/config", "XDG_DATA_HOME": "/xdg/data"},
			configBase: "/fallback/config",
			dataBase:   "/fallback/data",
			wantConfig: filepath.Join("/xdg/config", "checkoff", "config.toml"),
			wantData:   filepath.Join("/xdg/data", "checkoff"),
		},
		{
			name:       "linux defaults",
			goos:       "linux",
			env:        map[string]string{},
			configBase: "/home/me/.config",
			dataBase:   "/home/me/.local/share",
			wantConfig: filepath.Join("/home/me/.config", "checkoff", "config.toml"),
			wantData:   filepath.Join("/home/me/.local/share", "checkoff"),
		},
		{
			name:       "windows appdata",
			goos:       "windows",
			env:        map[string]string{"APPDATA": `C:\Roaming`, "LOCALAPPDATA": `C:\Local`},
			configBase: `C:\fallback\config`,
			dataBase:   `C:\fallback\data`,
			wantConfig: filepath.Join(`C:\Roaming`, "checkoff", "config.toml"),
			wantData:   filepath.Join(`C:\Local`, "checkoff"),
		},
		{
			name:       "darwin ignores xdg",
			goos:       "darwin",
			env:        map[string]string{"XDG_CONFIG_HOME": "/ignored"},
			configBase: "/Users/me/Library/Application Support",
			dataBase:   "/Users/me/Library/Application Support",
			wantConfig: filepath.Join("/Users/me/Library/Application Support", "checkoff", "config.toml"),
			wantData:   filepath.Join("/Users/me/Library/Application Support", "checkoff"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PathsFor(tc.goos, tc.env, tc.configBase, tc.dataBase, "checkoff")
			if err != nil {
				t.Fatalf("PathsFor() error = %v", err)
			}
			if p.ConfigPath != tc.wantConfig {
				t.Fatalf("config path = %q, want %q", p.ConfigPath, tc.wantConfig)
			}
			if p.DataDir != tc.wantData {
				t.Fatalf("data dir = %q, want %q", p.DataDir, tc.wantData)
			}
			if p.DBPath != filepath.Join(tc.wantData, "checkoff.db") {
				t.Fatalf("unexpected db path %q", p.DBPath)
			}
			if p.LogDir != filepath.Join(tc.wantData, "log") {
				t.Fatalf("unexpected log dir %q", p.LogDir)
			}
		})
	}
}

func TestPathsForValidation(t *testing.T) {
	if _, err := PathsFor("linux", nil, "", "/data", "checkoff"); err == nil {
		t.Fatal("expected error for empty config base")
	}
	if _, err := PathsFor("linux", nil, "/cfg", "/data", "  "); err == nil {
		t.Fatal("expected error for empty app name")
	}
}

func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	p, err := DefaultPathsWithOptions(Options{AppName: "checkoff", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "checkoff-dev" {
		t.Fatalf("unexpected dev config dir %q", p.ConfigPath)
	}
	if filepath.Base(p.DBPath) != "checkoff-dev.db" {
		t.Fatalf("unexpected dev db path %q", p.DBPath)
	}
}
