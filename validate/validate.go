// Command validate checks every scenario file in a directory (default
// ../scenarios). For each file it checks:
//   - YAML/JSON structure and the required name and instructions fields
//   - The instruction text against the protocol grammar
//   - Every rover starts inside the plateau
//
// Rovers sharing a start cell and moves that would be skipped are reported as
// warnings; they do not make a scenario invalid.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/rover-arena/game/engine"
	"github.com/wricardo/rover-arena/game/scenario"
	"github.com/wricardo/rover-arena/game/service"
)

// ValidationResult captures the outcome of validating a single file.
// Err combines every problem found; Warnings and Info are informational.
type ValidationResult struct {
	File     string
	Valid    bool
	Err      error
	Warnings []string
	Info     []string
}

// Errors returns the individual problems combined in Err
func (r ValidationResult) Errors() []error {
	return multierr.Errors(r.Err)
}

func decodeScenario(path string, data []byte) (*service.Scenario, error) {
	var s service.Scenario
	var err error
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// validateScenario loads and validates a single scenario file
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath)}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Err = fmt.Errorf("failed to read file: %w", err)
		return result
	}

	s, err := decodeScenario(filePath, data)
	if err != nil {
		result.Err = fmt.Errorf("invalid %s: %w", strings.TrimPrefix(filepath.Ext(filePath), "."), err)
		return result
	}

	if strings.TrimSpace(s.Name) == "" {
		result.Err = multierr.Append(result.Err, errors.New("name is required"))
	}
	if strings.TrimSpace(s.Instructions) == "" {
		result.Err = multierr.Append(result.Err, errors.New("instructions are required"))
		return result
	}

	batch, err := engine.Parse(s.Instructions)
	if err != nil {
		result.Err = multierr.Append(result.Err, err)
		return result
	}

	starts := make(map[engine.Position][]int)
	for i, cmd := range batch.Commands {
		if cmd.Start.X > batch.Platform.MaxX || cmd.Start.Y > batch.Platform.MaxY {
			result.Err = multierr.Append(result.Err, fmt.Errorf("rover %d starts at (%d,%d), outside plateau %s",
				i, cmd.Start.X, cmd.Start.Y, batch.Platform))
			continue
		}
		starts[cmd.Start] = append(starts[cmd.Start], i)
	}

	var shared []string
	for pos, rovers := range starts {
		if len(rovers) > 1 {
			shared = append(shared, fmt.Sprintf("rovers %v share start cell (%d,%d)", rovers, pos.X, pos.Y))
		}
	}
	sort.Strings(shared)
	result.Warnings = append(result.Warnings, shared...)

	if result.Err != nil {
		return result
	}

	arena := engine.NewArena()
	arena.Diagnostics = nil
	rejected, err := arena.Deploy(batch)
	if err != nil {
		result.Err = err
		return result
	}
	for _, r := range rejected {
		result.Warnings = append(result.Warnings, r.String())
	}

	result.Valid = true
	result.Info = []string{
		fmt.Sprintf("Name: %s", s.Name),
		fmt.Sprintf("Plateau: %s", batch.Platform),
		fmt.Sprintf("Rovers: %d", len(batch.Commands)),
		fmt.Sprintf("Skipped moves: %d", len(rejected)),
		fmt.Sprintf("Report: %s", strings.ReplaceAll(arena.Report(), "\n", " | ")),
	}
	return result
}

// scenarioFiles lists the scenario files in dir, sorted by name
func scenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, ext := range scenario.Extensions {
			if filepath.Ext(entry.Name()) == ext {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateDir validates every scenario in dir and combines all failures into
// one error, prefixed with the file name
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := scenarioFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("error finding scenario files: %w", err)
	}

	var (
		results []ValidationResult
		errs    error
	)
	for _, file := range files {
		result := validateScenario(file)
		results = append(results, result)
		for _, e := range result.Errors() {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", result.File, e))
		}
	}

	// canyon.yaml and canyon.json would both answer to the ID "canyon"
	seen := make(map[string]string)
	for _, file := range files {
		name := filepath.Base(file)
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if first, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: scenario id %q already used by %s", name, id, first))
			continue
		}
		seen[id] = name
	}

	return results, errs
}

func printResult(result ValidationResult) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Info {
			fmt.Println("  ✓ " + info)
		}
	} else {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors() {
			fmt.Println("  ❌ " + err.Error())
		}
	}
	for _, warning := range result.Warnings {
		fmt.Println("  ⚠ " + warning)
	}
}

// main validates the directory given as the first argument, printing a
// concise report and exiting with non-zero status if anything is invalid.
func main() {
	dir := "../scenarios"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	results, err := validateDir(dir)
	for _, result := range results {
		printResult(result)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if err != nil {
		fmt.Printf("❌ %d problem(s) found:\n", len(multierr.Errors(err)))
		for _, e := range multierr.Errors(err) {
			fmt.Println("  " + e.Error())
		}
		os.Exit(1)
	}
	fmt.Printf("✅ All %d scenarios are valid!\n", len(results))
}
