package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for file extensions no parser handles.
var ErrFormat = errors.New("level: unsupported level format")

// ParseYAML decodes a level from YAML.
func ParseYAML(data []byte) (Level, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Level{}, fmt.Errorf("level: parse yaml: %w", err)
	}
	return l, nil
}

// ParseTOML decodes a level from TOML.
func ParseTOML(data []byte) (Level, error) {
	var l Level
	if err := toml.Unmarshal(data, &l); err != nil {
		return Level{}, fmt.Errorf("level: parse toml: %w", err)
	}
	return l, nil
}

// Parse decodes data according to a file extension such as ".yaml" or
// "toml".
func Parse(data []byte, ext string) (Level, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		return ParseYAML(data)
	case "toml":
		return ParseTOML(data)
	default:
		return Level{}, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// LoadFile reads and validates a level file. The ID defaults to the file
// name without its extension.
func LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("level: %w", err)
	}
	ext := filepath.Ext(path)
	l, err := Parse(data, ext)
	if err != nil {
		return Level{}, err
	}
	if l.ID == "" {
		l.ID = strings.TrimSuffix(filepath.Base(path), ext)
	}
	if err := l.Validate(); err != nil {
		return Level{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// MustParseYAML is like ParseYAML but panics on error. Games use it on
// their embedded levels.
func MustParseYAML(data []byte) Level {
	l, err := ParseYAML(data)
	if err != nil {
		panic(err)
	}
	if err := l.Validate(); err != nil {
		panic(err)
	}
	return l
}
