// Command validate provides a small CLI that validates maze configuration
// JSON files in the configs directory. It checks:
//   - JSON structure and engine field constraints (dimensions, physics ranges)
//   - Odd cols/rows so the lattice carves with solid outer walls
//   - Ball clearance: the ball diameter must fit a one-cell corridor
//   - Physics sanity: the terminal speed must be able to cross a cell
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes contains informational lines; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
// The engine validator covers structure and ranges; the checks here add
// gameplay heuristics the engine does not enforce.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
		Notes: []string{},
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	// Ball clearance inside a one-cell corridor
	clearance := config.CellSize * (1 - 2*config.BallRadiusRatio)
	if clearance < config.CellSize*0.2 {
		result.info("warning: corridor clearance %.1fpx is tight; steering will be unforgiving", clearance)
	}

	// Terminal speed under friction: v = a*k/(1-k) per tick. If it takes
	// more than a few seconds to cross one cell at full tilt, the maze
	// feels broken rather than hard.
	terminal := config.Acceleration * config.Friction / (1 - config.Friction)
	ticksPerCell := config.CellSize / terminal
	secondsPerCell := ticksPerCell / float64(config.TickHz)
	if secondsPerCell > 3 {
		result.info("warning: crossing one cell takes %.1fs at terminal speed", secondsPerCell)
	}

	if result.Valid {
		result.info("✓ Name: %s", config.Name)
		result.info("✓ Grid: %dx%d cells, %.0fpx each", config.Cols, config.Rows, config.CellSize)
		result.info("✓ Physics: accel=%.2f friction=%.2f restitution=%.2f",
			config.Acceleration, config.Friction, config.Restitution)
		result.info("✓ Ball radius: %.1fpx (clearance %.1fpx)",
			config.BallRadiusRatio*config.CellSize, clearance)
		result.info("✓ Terminal speed: %.1fpx/tick at %dHz", terminal, config.TickHz)
	}

	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting non-zero if any are invalid.
func main() {
	configDir := flag.String("config-dir", "configs", "directory containing maze configurations")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", *configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, note := range result.Notes {
				if !strings.HasPrefix(note, "✓") {
					fmt.Println("  ❌ " + note)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
