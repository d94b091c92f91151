package definition

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

const defaultFile = "defaults/contact.yaml"

// Parse decodes a JSON or YAML definition. source names the input in errors.
func Parse(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("definition: %s is empty", source)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return Definition{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	def.Source = source
	return normalise(def)
}

// Load reads and parses name from fsys.
func Load(fsys fs.FS, name string) (Definition, error) {
	if !isDefinitionFile(name) {
		return Definition{}, fmt.Errorf("definition: %s: unsupported extension", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// LoadFile reads a definition from the local filesystem.
func LoadFile(path string) (Definition, error) {
	return Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Default returns the embedded contact form definition.
func Default() Definition {
	def, err := Load(defaults, defaultFile)
	if err != nil {
		panic(err)
	}
	return def
}

func normalise(def Definition) (Definition, error) {
	def.ID = strings.TrimSpace(def.ID)
	def.Method = strings.ToUpper(strings.TrimSpace(def.Method))
	def.Locale = strings.TrimSpace(def.Locale)
	for i := range def.Steps {
		step := &def.Steps[i]
		step.Name = strings.TrimSpace(step.Name)
		if step.Name == "" {
			return Definition{}, fmt.Errorf("%w: %s step %d has an empty name", ErrInvalidDefinition, def.label(), i)
		}
		for j := range step.Fields {
			field := &step.Fields[j]
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return Definition{}, fmt.Errorf("%w: %s step %q field %d has an empty name", ErrInvalidDefinition, def.label(), step.Name, j)
			}
			if len(field.Options) > 0 && field.Kind == "" {
				field.Kind = "select"
			}
		}
		for j := range step.Rules {
			step.Rules[j].Kind = strings.TrimSpace(step.Rules[j].Kind)
		}
	}
	return def, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
