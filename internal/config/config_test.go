package config_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"playbook/internal/config"
)

func TestManager_ReadWrite(t *testing.T) {
	t.Run("round-trips a full config", func(t *testing.T) {
		in := config.NewConfig("/home/user/.local/share/playbook")
		in.Autosave.DelayMs = 500
		in.Offsite = append(in.Offsite, config.DestinationConfig{
			Type:     "s3",
			Name:     "offsite",
			S3Bucket: "team-playbook",
			S3Region: "us-east-1",
		})

		m := &config.Manager{}
		var buf bytes.Buffer
		if err := m.Write(&buf, in); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if out.BaseDir != in.BaseDir || out.LogDir != in.LogDir {
			t.Errorf("dirs = %q/%q, want %q/%q", out.BaseDir, out.LogDir, in.BaseDir, in.LogDir)
		}
		if out.Database.Type != "sqlite" || out.Database.DataDir != in.Database.DataDir {
			t.Errorf("database = %+v", out.Database)
		}
		if out.Autosave.DelayMs != 500 {
			t.Errorf("autosave delay = %d, want 500", out.Autosave.DelayMs)
		}
		if len(out.Offsite) != 2 {
			t.Fatalf("offsite destinations = %d, want 2", len(out.Offsite))
		}
		if out.Offsite[1].S3Bucket != "team-playbook" {
			t.Errorf("s3 bucket = %q", out.Offsite[1].S3Bucket)
		}
	})

	t.Run("reads a hand-written config", func(t *testing.T) {
		raw := `
base_dir = "/srv/playbook"
log_dir = "/srv/playbook/log"

[database]
type = "memory"

[autosave]
delay_ms = 250

[[offsite]]
type = "filesystem"
name = "local"
dir = "/srv/playbook/backups"
`
		m := &config.Manager{}
		cfg, err := m.Read(strings.NewReader(raw))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if cfg.Database.Type != "memory" {
			t.Errorf("database type = %q, want memory", cfg.Database.Type)
		}
		if cfg.Autosave.DelayMs != 250 {
			t.Errorf("autosave delay = %d, want 250", cfg.Autosave.DelayMs)
		}
		if len(cfg.Offsite) != 1 || cfg.Offsite[0].Dir != "/srv/playbook/backups" {
			t.Errorf("offsite = %+v", cfg.Offsite)
		}
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		m := &config.Manager{}
		if _, err := m.Read(strings.NewReader("base_dir = [broken")); err == nil {
			t.Error("Read() accepted malformed TOML")
		}
	})
}

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig("/data/playbook")

	if cfg.Database.Type != "sqlite" {
		t.Errorf("default database type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.DataDir != filepath.Join("/data/playbook", "data") {
		t.Errorf("data dir = %q", cfg.Database.DataDir)
	}
	if len(cfg.Offsite) != 1 || cfg.Offsite[0].Type != "filesystem" {
		t.Errorf("default offsite = %+v", cfg.Offsite)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates a new config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "playbook.toml")
		cfg := config.NewConfig("/data/playbook")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		read, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if read.BaseDir != "/data/playbook" {
			t.Errorf("BaseDir = %q", read.BaseDir)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playbook.toml")
		cfg := config.NewConfig("/data/playbook")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := config.Init(path, cfg); err == nil {
			t.Error("second Init() did not fail on an existing file")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("fails for a missing file", func(t *testing.T) {
		if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("ReadFromFile() error = nil for a missing file")
		}
	})
}
