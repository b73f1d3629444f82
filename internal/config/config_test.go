package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/pageroute/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Pages.Extension != DefaultExtension {
		t.Errorf("Pages.Extension = %q, want %q", cfg.Pages.Extension, DefaultExtension)
	}
	if cfg.Pages.Exclude != DefaultExclude {
		t.Errorf("Pages.Exclude = %q, want %q", cfg.Pages.Exclude, DefaultExclude)
	}
	if cfg.Source.Kind != SourceDir {
		t.Errorf("Source.Kind = %q, want %q", cfg.Source.Kind, SourceDir)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E141") {
		t.Fatalf("Load(missing) err = %v, want E141", err)
	}

	writeConfig(t, tmpDir, `{
  "name": "demo",
  "paths": {"pages": "client/pages"},
  "pages": {"extension": ".page"},
  "server": {"port": 8080}
}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Pages.Extension != ".page" {
		t.Errorf("Pages.Extension = %q, want .page", cfg.Pages.Extension)
	}
	if got, want := cfg.PagesPath(), filepath.Join(tmpDir, "client/pages"); got != want {
		t.Errorf("PagesPath() = %q, want %q", got, want)
	}
	if got, want := cfg.LocalesPath(), filepath.Join(tmpDir, "locales"); got != want {
		t.Errorf("LocalesPath() = %q, want %q", got, want)
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json`)

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E120") {
		t.Errorf("err = %v, want E120", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"server": {"port": 8080}}`)

	t.Setenv("PAGEROUTE_SERVER_PORT", "9090")
	t.Setenv("PAGEROUTE_SOURCE_KIND", "s3")
	t.Setenv("PAGEROUTE_SOURCE_BUCKET", "pages-bucket")
	t.Setenv("PAGEROUTE_LOG_LEVEL", "debug")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Source.Kind != SourceS3 || cfg.Source.Bucket != "pages-bucket" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{}`)
	t.Setenv("PAGEROUTE_SERVER_PORT", "not-a-number")

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E121") {
		t.Errorf("err = %v, want E121", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"extension without dot", func(c *Config) { c.Pages.Extension = "go" }, false},
		{"s3 without bucket", func(c *Config) { c.Source.Kind = SourceS3 }, false},
		{"s3 with bucket", func(c *Config) { c.Source.Kind = SourceS3; c.Source.Bucket = "b" }, true},
		{"unknown source", func(c *Config) { c.Source.Kind = "ftp" }, false},
	}

	for _, tt := range tests {
		cfg := New()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", tt.name, err)
		}
		if !tt.valid && !errors.HasCode(err, "E122") {
			t.Errorf("%s: Validate() = %v, want E122", tt.name, err)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Name != "saved" {
		t.Errorf("Name = %q, want saved", loaded.Name)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
}

func TestLoadAWSCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	creds, err := LoadAWSCredentials()
	if err != nil {
		t.Fatalf("LoadAWSCredentials() error = %v", err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}
