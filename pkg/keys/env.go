package keys

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValueReader fetches a string value by lookup key, returning empty when
// unset. Both the environment tier and the platform-secrets tier read
// through this contract.
type ValueReader interface {
	Lookup(name string) string
}

// OSEnv reads from the process environment.
type OSEnv struct{}

var _ ValueReader = OSEnv{}

func (OSEnv) Lookup(name string) string { return os.Getenv(name) }

// MapSecrets is a fixed in-memory secret source, used for tests and for
// platforms that inject secrets as a parsed map.
type MapSecrets map[string]string

var _ ValueReader = MapSecrets{}

func (m MapSecrets) Lookup(name string) string { return m[name] }

// LoadSecretsFile reads a flat YAML file of host-provided platform secrets.
// A missing file is not an error: hosted defaults are optional.
func LoadSecretsFile(path string) (MapSecrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return MapSecrets{}, nil
		}
		return nil, fmt.Errorf("keys: read secrets file: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keys: parse secrets file %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]string{}
	}
	return MapSecrets(raw), nil
}
