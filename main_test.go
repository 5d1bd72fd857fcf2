package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv("CONFIG_DIR", "/tmp/mazes")
	if got := getConfigDirDefault(); got != "/tmp/mazes" {
		t.Errorf("configDir = %q, want /tmp/mazes", got)
	}

	os.Unsetenv("CONFIG_DIR")
	if got := getConfigDirDefault(); got != "configs" {
		t.Errorf("configDir = %q, want configs", got)
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"name": "classic",
		"description": "default maze",
		"cols": 15,
		"rows": 9,
		"cell_size": 40,
		"acceleration": 0.5,
		"friction": 0.96,
		"restitution": 0.5,
		"ball_radius_ratio": 0.3,
		"tick_hz": 60
	}`
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	originalConfigDir := *configDir
	*configDir = dir
	defer func() { *configDir = originalConfigDir }()

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	_, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

// Note: main(), runHTTPServer(), and runStdioMCPWithInternalServer() start
// servers and block, so they are exercised through the api package's
// end-to-end tests instead.
