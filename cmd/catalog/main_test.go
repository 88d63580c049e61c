package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/n9te9/go-graphql-catalog/server"
)

func TestLoadOption_DefaultsWhenImplicitFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	opt, err := loadOption(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt != server.DefaultOption() {
		t.Errorf("expected defaults, got %+v", opt)
	}

	if _, err := loadOption(path, true); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadOption_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("port: 8123\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opt, err := loadOption(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Port != 8123 {
		t.Errorf("Port = %d, want 8123", opt.Port)
	}
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	cmd := newInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := out.String(); got != "Catalog "+version+"\n" {
		t.Errorf("unexpected output %q", got)
	}
}
