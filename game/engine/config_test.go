package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultGameConfig_Valid(t *testing.T) {
	if err := ValidateGameConfig(DefaultGameConfig()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameConfig)
		wantErr string
	}{
		{"valid", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description"},
		{"even cols", func(c *GameConfig) { c.Cols = 14 }, "cols"},
		{"cols too small", func(c *GameConfig) { c.Cols = 3 }, "cols"},
		{"cols too large", func(c *GameConfig) { c.Cols = 101 }, "cols"},
		{"even rows", func(c *GameConfig) { c.Rows = 10 }, "rows"},
		{"rows too small", func(c *GameConfig) { c.Rows = 1 }, "rows"},
		{"cell size too small", func(c *GameConfig) { c.CellSize = 2 }, "cell_size"},
		{"cell size too large", func(c *GameConfig) { c.CellSize = 500 }, "cell_size"},
		{"zero acceleration", func(c *GameConfig) { c.Acceleration = 0 }, "acceleration"},
		{"negative acceleration", func(c *GameConfig) { c.Acceleration = -0.5 }, "acceleration"},
		{"zero friction", func(c *GameConfig) { c.Friction = 0 }, "friction"},
		{"friction of one", func(c *GameConfig) { c.Friction = 1 }, "friction"},
		{"negative restitution", func(c *GameConfig) { c.Restitution = -0.1 }, "restitution"},
		{"restitution above one", func(c *GameConfig) { c.Restitution = 1.5 }, "restitution"},
		{"zero ball ratio", func(c *GameConfig) { c.BallRadiusRatio = 0 }, "ball_radius_ratio"},
		{"ball fills corridor", func(c *GameConfig) { c.BallRadiusRatio = 0.5 }, "ball_radius_ratio"},
		{"zero tick rate", func(c *GameConfig) { c.TickHz = 0 }, "tick_hz"},
		{"tick rate too high", func(c *GameConfig) { c.TickHz = 1000 }, "tick_hz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGameConfig()
			tt.mutate(config)
			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	config := DefaultGameConfig()
	config.Name = "loaded"
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if loaded.Name != "loaded" {
		t.Errorf("name = %q, want loaded", loaded.Name)
	}
	if loaded.Cols != config.Cols || loaded.Friction != config.Friction {
		t.Errorf("loaded config differs: %+v", loaded)
	}
}

func TestLoadGameConfig_MissingFile(t *testing.T) {
	if _, err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadGameConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadGameConfig(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadGameConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	config := DefaultGameConfig()
	config.Friction = 1.2
	data, _ := json.Marshal(config)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadGameConfig(path); err == nil {
		t.Error("expected validation error")
	}
}
