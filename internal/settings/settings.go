// Package settings reads the kubecloud settings file and KUBECLOUD_*
// environment variables into the flat key space of the configuration
// model.
//
// The file uses the configuration keys as top-level YAML keys. Structured
// values (nodePools, tags, subnet lists) may be written as YAML and are
// flattened to JSON, which is what the stack configuration carries:
//
//	cloudProvider: gcp
//	environment: dev
//	region: europe-west1
//	gcp:project: my-project
//	nodePools:
//	  - name: default
//	    instanceSize: medium
//
// Environment variables take precedence over the file. The variable name
// is the key upper-cased with ':' and '-' replaced by '_', prefixed with
// KUBECLOUD_ (KUBECLOUD_GCP_PROJECT, KUBECLOUD_NODEPOOLS).
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/imamik/kubecloud/internal/config"
)

const (
	// DefaultFile is read when no explicit path is given.
	DefaultFile = "kubecloud.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "KUBECLOUD"
)

var envReplacer = strings.NewReplacer(":", "_", "-", "_")

// Settings is the resolved key/value view. It implements config.Source.
type Settings struct {
	values map[string]string
	file   string
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envReplacer.Replace(key))
}

// Load resolves settings from path and the environment. An empty path
// reads DefaultFile when it exists; an explicit path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = DefaultFile
	}

	// viper lower-cases nested keys and types unquoted scalars, so file
	// values are taken from the raw document: label and tag keys stay
	// intact and "1.30" is not read as a float.
	raw := map[string]yaml.Node{}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", file, err)
		}
		if err := checkKeys(raw); err != nil {
			return nil, fmt.Errorf("invalid settings file %s: %w", file, err)
		}
	case path == "" && errors.Is(err, fs.ErrNotExist):
		file = ""
	default:
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	values := make(map[string]string)
	for _, key := range config.Keys {
		if !v.IsSet(key) {
			continue
		}
		var (
			s   string
			err error
		)
		node, inFile := raw[key]
		if _, env := os.LookupEnv(EnvVar(key)); env || !inFile {
			s, err = flatten(v.Get(key))
		} else {
			s, err = flattenNode(&node)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		values[key] = s
	}

	return &Settings{values: values, file: file}, nil
}

// FromMap builds Settings from already flattened values.
func FromMap(values map[string]string) *Settings {
	s := &Settings{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get implements config.Source.
func (s *Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set overrides a single key.
func (s *Settings) Set(key, value string) {
	s.values[key] = value
}

// Values returns a copy of the resolved values.
func (s *Settings) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the resolved keys in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// File is the settings file that was read, or "" when none was.
func (s *Settings) File() string {
	return s.file
}

func checkKeys(raw map[string]yaml.Node) error {
	known := make(map[string]bool, len(config.Keys))
	for _, k := range config.Keys {
		known[k] = true
	}
	var unknown []string
	for k := range raw {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// flattenNode renders a file value. Scalars keep their literal text,
// sequences and mappings are JSON encoded.
func flattenNode(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			return "", nil
		}
		return node.Value, nil
	}
	var val any
	if err := node.Decode(&val); err != nil {
		return "", err
	}
	return flatten(val)
}

// flatten renders a settings value as the string the configuration model
// expects. Scalars are printed, structured values are JSON encoded.
func flatten(val any) (string, error) {
	switch t := val.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, int, int64, float64:
		return fmt.Sprint(t), nil
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", val)
	}
}
