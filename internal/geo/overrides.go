package geo

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Overrides is the shape of the optional YAML file that extends the built-in
// alias and demonym tables. Keys are case-insensitive; entries replace any
// built-in for the same key.
type Overrides struct {
	Aliases  map[string]string   `yaml:"aliases"`
	Demonyms map[string][]string `yaml:"demonyms"`
}

// LoadOverrides merges user-supplied aliases and demonyms from a YAML file
// over the built-in tables. Call once at startup, before any lookups run
// concurrently; the tables are read-only afterwards.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "geo: read overrides %s", path)
	}

	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return eris.Wrap(err, "geo: parse overrides")
	}

	for name, code := range ov.Aliases {
		name = strings.ToUpper(strings.TrimSpace(name))
		code = strings.ToUpper(strings.TrimSpace(code))
		if name == "" || code == "" {
			continue
		}
		countryAliases[name] = code
	}
	for code, names := range ov.Demonyms {
		key := normalizeKey(strings.TrimSpace(code))
		if key == "" {
			continue
		}
		cleaned := make([]string, 0, len(names))
		for _, n := range names {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				cleaned = append(cleaned, n)
			}
		}
		if len(cleaned) > 0 {
			demonyms[key] = cleaned
		}
	}
	return nil
}
