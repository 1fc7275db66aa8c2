package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	// Check defaults
	if cfg.RootURI != "file:///" {
		t.Errorf("expected default root URI 'file:///', got %s", cfg.RootURI)
	}

	if cfg.Document.URI != "file:///test.t" {
		t.Errorf("expected default document URI 'file:///test.t', got %s", cfg.Document.URI)
	}

	if cfg.Document.Text != "x = 10\ny = " {
		t.Errorf("expected default document text, got %q", cfg.Document.Text)
	}

	if cfg.Completion.Line != 1 || cfg.Completion.Character != 4 {
		t.Errorf("expected default position 1:4, got %d:%d", cfg.Completion.Line, cfg.Completion.Character)
	}

	if cfg.Wait != 500*time.Millisecond {
		t.Errorf("expected default wait 500ms, got %s", cfg.Wait)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
server:
  command: /usr/local/bin/gopls
  args:
    - serve
root_uri: file:///workspace
document:
  uri: file:///workspace/main.go
  language_id: go
  version: 1
  text: "package main\n"
completion:
  line: 0
  character: 8
wait: 1s
`
	os.WriteFile("lspdrive.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Server.Command != "/usr/local/bin/gopls" {
		t.Errorf("expected server command '/usr/local/bin/gopls', got %s", cfg.Server.Command)
	}

	if len(cfg.Server.Args) != 1 || cfg.Server.Args[0] != "serve" {
		t.Errorf("expected server args [serve], got %v", cfg.Server.Args)
	}

	if cfg.Document.LanguageID != "go" {
		t.Errorf("expected language id 'go', got %s", cfg.Document.LanguageID)
	}

	if cfg.Completion.Character != 8 {
		t.Errorf("expected character 8, got %d", cfg.Completion.Character)
	}

	if cfg.Wait != time.Second {
		t.Errorf("expected wait 1s, got %s", cfg.Wait)
	}
}

func TestLoadRejectsNegativeWait(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.WriteFile("lspdrive.yml", []byte("wait: -1s\n"), 0644)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative wait")
	}
}

func TestLoadRejectsZeroDocumentVersion(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.WriteFile("lspdrive.yml", []byte("document:\n  version: 0\n"), 0644)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero document version")
	}
}
