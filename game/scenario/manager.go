package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/rover-arena/game/engine"
	"github.com/wricardo/rover-arena/game/service"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// Extensions lists the file extensions a scenario may be stored under, in lookup order
var Extensions = []string{".yaml", ".yml", ".json"}

// Manager loads and caches scenarios from a directory
type Manager struct {
	dir       string
	scenarios map[string]*service.Scenario
	mu        sync.RWMutex
}

// NewManager creates a scenario manager rooted at dir
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scenario directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("failed to stat scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario path is not a directory: %s", dir)
	}

	return &Manager{
		dir:       dir,
		scenarios: make(map[string]*service.Scenario),
	}, nil
}

// Dir returns the directory scenarios are read from
func (m *Manager) Dir() string {
	return m.dir
}

// Load loads a scenario by ID. The ID is the file name without its extension;
// a name with a supported extension is accepted too.
func (m *Manager) Load(id string) (*service.Scenario, error) {
	id = trimExtension(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, ErrScenarioNotFound
	}

	m.mu.RLock()
	if scenario, exists := m.scenarios[id]; exists {
		m.mu.RUnlock()
		return scenario, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if scenario, exists := m.scenarios[id]; exists {
		return scenario, nil
	}

	path, ok := m.resolve(id)
	if !ok {
		return nil, ErrScenarioNotFound
	}

	scenario, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	m.scenarios[id] = scenario
	return scenario, nil
}

// resolve finds the file backing id, honoring the order of Extensions
func (m *Manager) resolve(id string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(m.dir, id+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// List returns summary information about every valid scenario, sorted by ID.
// Files that fail to load are skipped; use Scan to see why.
func (m *Manager) List() ([]*service.ScenarioInfo, error) {
	infos, err := m.Scan()
	if infos == nil {
		return nil, err
	}
	return infos, nil
}

// Scan loads every scenario file in the directory. It returns the valid
// scenarios together with all problems found, combined into one error.
func (m *Manager) Scan() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var (
		ids  []string
		seen = make(map[string]string)
		errs error
	)

	for _, entry := range entries {
		if entry.IsDir() || !hasScenarioExtension(entry.Name()) {
			continue
		}

		id := trimExtension(entry.Name())
		if first, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: id %q already used by %s", ErrInvalidScenario, entry.Name(), id, first))
			continue
		}
		seen[id] = entry.Name()
		ids = append(ids, id)
	}

	infos := make([]*service.ScenarioInfo, 0, len(ids))
	for _, id := range ids {
		path, _ := m.resolve(id)

		scenario, err := m.Load(id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}

		info, err := Describe(scenario)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		info.ID = id
		info.Filename = filepath.Base(path)
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	return infos, errs
}

// Refresh drops every cached scenario so the next Load reads from disk
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = make(map[string]*service.Scenario)
}

// ReadFile decodes and validates a single scenario file. The format is picked
// from the file extension.
func ReadFile(path string) (*service.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario service.Scenario
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &scenario)
	} else {
		err = yaml.Unmarshal(data, &scenario)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidScenario, filepath.Base(path), err)
	}

	if scenario.Name == "" {
		scenario.Name = trimExtension(filepath.Base(path))
	}

	if err := Validate(&scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Validate checks that a scenario's instructions would deploy cleanly into an
// empty arena
func Validate(scenario *service.Scenario) error {
	if strings.TrimSpace(scenario.Instructions) == "" {
		return fmt.Errorf("%w: instructions are empty", ErrInvalidScenario)
	}

	batch, err := engine.Parse(scenario.Instructions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	arena := engine.NewArena()
	arena.Diagnostics = nil
	if _, err := arena.Deploy(batch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	return nil
}

// Describe summarizes a scenario without running it
func Describe(scenario *service.Scenario) (*service.ScenarioInfo, error) {
	batch, err := engine.Parse(scenario.Instructions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	return &service.ScenarioInfo{
		Name:        scenario.Name,
		Description: scenario.Description,
		Platform:    batch.Platform,
		Rovers:      len(batch.Commands),
	}, nil
}

func hasScenarioExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExtension(name string) string {
	if hasScenarioExtension(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
