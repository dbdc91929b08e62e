package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRangeFile is the top-level YAML structure for range files.
type yamlRangeFile struct {
	Range RangeDef `yaml:"range"`
}

// LoadRangeFromFile reads and validates a single range YAML file.
//
// Precondition: path must point to a valid YAML range file.
// Postcondition: Returns a validated RangeDef or a non-nil error.
func LoadRangeFromFile(path string) (*RangeDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading range file %s: %w", path, err)
	}
	return LoadRangeFromBytes(data)
}

// LoadRangeFromBytes parses and validates a range from YAML bytes.
//
// Postcondition: Returns a validated RangeDef or a non-nil error.
func LoadRangeFromBytes(data []byte) (*RangeDef, error) {
	var file yamlRangeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing range YAML: %w", err)
	}
	def := file.Range
	def.Description = strings.TrimSpace(def.Description)
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validating range: %w", err)
	}
	return &def, nil
}

// LoadRangesFromDir loads all YAML files in a directory as ranges, keyed by
// range ID.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated ranges or the first error encountered.
func LoadRangesFromDir(dir string) (map[string]*RangeDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading range directory %s: %w", dir, err)
	}

	ranges := make(map[string]*RangeDef)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		def, err := LoadRangeFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading range from %s: %w", name, err)
		}
		if _, dup := ranges[def.ID]; dup {
			return nil, fmt.Errorf("duplicate range ID: %q", def.ID)
		}
		ranges[def.ID] = def
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("no range files found in %s", dir)
	}
	return ranges, nil
}
