package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/barblang/barb/internal/reduce"
)

// SettingsFile is the on-disk (YAML) shape of reduce.Settings — the host
// operator's knobs for a reduction run, kept separate from reduce.Settings
// itself so the reducer package has no marshaling dependency of its own.
// Bool fields are pointers so an omitted key falls back to
// reduce.DefaultSettings() instead of silently becoming false.
type SettingsFile struct {
	BindGlobalsWhenReducing *bool          `yaml:"bind_globals_when_reducing"`
	FailOnCatchAll          *bool          `yaml:"fail_on_catch_all"`
	Namespaces              []string       `yaml:"namespaces"`
	AdditionalBindings      map[string]any `yaml:"additional_bindings"`
}

// LoadSettings reads and parses a SettingsFile from path, falling back to
// reduce.DefaultSettings() field-by-field for anything the file omits.
func LoadSettings(path string) (reduce.Settings, error) {
	st := reduce.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return reduce.Settings{}, fmt.Errorf("reading settings file %q: %w", path, err)
	}

	var sf SettingsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return reduce.Settings{}, fmt.Errorf("parsing settings file %q: %w", path, err)
	}

	if sf.BindGlobalsWhenReducing != nil {
		st.BindGlobalsWhenReducing = *sf.BindGlobalsWhenReducing
	}
	if sf.FailOnCatchAll != nil {
		st.FailOnCatchAll = *sf.FailOnCatchAll
	}
	if len(sf.Namespaces) > 0 {
		st.Namespaces = sf.Namespaces
	}
	if len(sf.AdditionalBindings) > 0 {
		st.AdditionalBindings = sf.AdditionalBindings
	}
	return st, nil
}
