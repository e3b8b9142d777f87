package preparation

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	apperrors "github.com/kbukum/dataprep/errors"
)

// Parse decodes a preparation from YAML or JSON, then normalizes and
// validates it.
func Parse(data []byte) (*Preparation, error) {
	var p Preparation
	if len(bytes.TrimSpace(data)) > 0 {
		// YAML is a superset of JSON, one decoder reads both.
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, apperrors.Parse("preparation", err)
		}
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Read parses a preparation from r.
func Read(r io.Reader) (*Preparation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Parse("preparation", err)
	}
	return Parse(data)
}

// LoadFile parses the preparation file at path.
func LoadFile(path string) (*Preparation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Parse(path, err)
	}
	return Parse(data)
}

// Loader loads preparations by name.
type Loader interface {
	Load(name string) (*Preparation, error)
}

// FileLoader loads preparations from files in a set of directories.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader searching dirs in order.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load looks for {name}.yaml, {name}.yml then {name}.json in every
// directory. A file that exists but does not parse is reported as is.
func (l *FileLoader) Load(name string) (*Preparation, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml", ".json"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			return LoadFile(path)
		}
	}
	return nil, apperrors.NotFound("preparation", name)
}

var _ Loader = (*FileLoader)(nil)
