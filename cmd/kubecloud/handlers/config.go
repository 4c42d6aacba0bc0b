package handlers

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config prints the validated, fully defaulted configuration as YAML.
func Config(configPath string) error {
	s, cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if file := s.File(); file != "" {
		fmt.Printf("# source: %s\n", file)
	}
	fmt.Print(string(out))
	return nil
}
