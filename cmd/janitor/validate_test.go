package main

import (
	"os"
	"path/filepath"
	"testing"

	"trainingportal-hq/janitor/pkg/cli"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", name, err)
	}
	return path
}

// TestValidateFiles tests the validate command against real files on disk.
func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()

	policyPath := writeFile(t, dir, "policy.yaml", `
rules:
  - id: expired-sessions
    category: session
    max_age: 720h
    action: delete
    reason: session expired
`)
	configPath := writeFile(t, dir, "config.yaml", `
store:
  path: `+filepath.Join(dir, "portal.db")+`
policy:
  file_path: `+policyPath+`
`)

	prev := cfgFile
	cfgFile = configPath
	defer func() { cfgFile = prev }()

	if err := validateFiles(validateCmd, nil); err != nil {
		t.Fatalf("validateFiles() failed: %v", err)
	}
}

// TestValidateFiles_BadPolicy tests that a broken policy file is rejected as
// a config error.
func TestValidateFiles_BadPolicy(t *testing.T) {
	dir := t.TempDir()

	policyPath := writeFile(t, dir, "policy.yaml", `
rules:
  - id: bad
    category: session
    max_age: -1h
    action: delete
    reason: x
`)
	configPath := writeFile(t, dir, "config.yaml", `
store:
  path: `+filepath.Join(dir, "portal.db")+`
policy:
  file_path: `+policyPath+`
`)

	prev := cfgFile
	cfgFile = configPath
	defer func() { cfgFile = prev }()

	err := validateFiles(validateCmd, nil)
	if err == nil {
		t.Fatal("validateFiles() succeeded with invalid policy, want error")
	}
	if _, ok := err.(*cli.ConfigError); !ok {
		t.Errorf("error = %T, want *cli.ConfigError", err)
	}
}
