package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/rover-arena/game/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateScenario_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "canonical.yaml", `name: Canonical
description: Two rovers
instructions: |
  5 5
  1 2 N
  LMLMLMLMM
  3 3 E
  MMRMMRMRRM
`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, got errors: %v", result.Err)
	}
	if result.File != "canonical.yaml" {
		t.Errorf("Expected file name canonical.yaml, got %s", result.File)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}

	found := false
	for _, info := range result.Info {
		if info == "Report: 1 3 N | 5 1 E" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected report in info, got %v", result.Info)
	}
}

func TestValidateScenario_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "edge.json", `{"name": "Edge", "instructions": "1 1\n1 1 N\nMM"}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, got errors: %v", result.Err)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Expected 2 skipped move warnings, got %v", result.Warnings)
	}
}

func TestValidateScenario_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected []string
	}{
		{
			name:     "broken yaml",
			file:     "broken.yaml",
			content:  "name: [unterminated",
			expected: []string{"invalid yaml"},
		},
		{
			name:     "broken json",
			file:     "broken.json",
			content:  `{"name": "test", invalid json}`,
			expected: []string{"invalid json"},
		},
		{
			name:     "missing name and instructions",
			file:     "empty.yaml",
			content:  "description: nothing here\n",
			expected: []string{"name is required", "instructions are required"},
		},
		{
			name:     "bad grammar",
			file:     "grammar.yaml",
			content:  "name: Bad\ninstructions: \"5 5\\n3 3 N\\nLMQ\"\n",
			expected: []string{"invalid input format"},
		},
		{
			name:     "rover outside plateau",
			file:     "outside.yaml",
			content:  "name: Outside\ninstructions: \"2 2\\n1 1 N\\nM\\n3 0 E\\nM\"\n",
			expected: []string{"rover 1 starts at (3,0), outside plateau 2 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			result := validateScenario(path)
			if result.Valid {
				t.Fatal("Expected invalid scenario")
			}
			if len(result.Errors()) != len(tt.expected) {
				t.Fatalf("Expected %d errors, got %v", len(tt.expected), result.Errors())
			}
			for i, want := range tt.expected {
				if got := result.Errors()[i].Error(); !strings.Contains(got, want) {
					t.Errorf("Error %d: expected %q in %q", i, want, got)
				}
			}
		})
	}
}

func TestValidateScenario_GrammarErrorWrapsSentinel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "name: Bad\ninstructions: \"-5 5\\n3 3 N\\nM\"\n")

	result := validateScenario(path)
	if !errors.Is(result.Err, engine.ErrInvalidInputFormat) {
		t.Errorf("Expected ErrInvalidInputFormat, got %v", result.Err)
	}
}

func TestValidateScenario_SharedStartCell(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shared.yaml", "name: Shared\ninstructions: \"5 5\\n3 3 N\\nM\\n3 3 N\\nM\"\n")

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Shared start cells should only warn, got %v", result.Err)
	}

	if len(result.Warnings) == 0 || result.Warnings[0] != "rovers [0 1] share start cell (3,3)" {
		t.Errorf("Expected shared start warning first, got %v", result.Warnings)
	}
}

func TestValidateScenario_MissingFile(t *testing.T) {
	result := validateScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if !strings.Contains(result.Err.Error(), "failed to read file") {
		t.Errorf("Unexpected error: %v", result.Err)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_good.yaml", "name: Good\ninstructions: \"5 5\\n1 2 N\\nLMLMLMLMM\"\n")
	writeFile(t, dir, "b_bad.yml", "name: Bad\ninstructions: \"5 5\\n1 2 N\"\n")
	writeFile(t, dir, "a_good.json", `{"name": "Dup", "instructions": "1 1\n0 0 N\nM"}`)
	writeFile(t, dir, "notes.txt", "not a scenario")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	results, err := validateDir(dir)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// sorted by file name
	if results[0].File != "a_good.json" || results[1].File != "a_good.yaml" || results[2].File != "b_bad.yml" {
		t.Errorf("Unexpected order: %s, %s, %s", results[0].File, results[1].File, results[2].File)
	}

	if err == nil {
		t.Fatal("Expected combined error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "b_bad.yml:") {
		t.Errorf("Expected bad file in error, got %s", msg)
	}
	if !strings.Contains(msg, `scenario id "a_good" already used by a_good.json`) {
		t.Errorf("Expected duplicate id in error, got %s", msg)
	}
}

func TestValidateDir_AllValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", "name: One\ninstructions: \"5 5\\n1 2 N\\nM\"\n")

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 || !results[0].Valid {
		t.Errorf("Expected one valid result, got %+v", results)
	}
}

func TestValidateDir_MissingDir(t *testing.T) {
	if _, err := validateDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
