package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScheduleFile is a solved or hand-edited schedule: one shift -> people map per day
type ScheduleFile struct {
	Roster string                `yaml:"roster,omitempty"`
	Status string                `yaml:"status,omitempty"`
	Days   []map[string][]string `yaml:"days"`
}

// LoadScheduleFile reads a schedule file
func LoadScheduleFile(path string) (*ScheduleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var sf ScheduleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}
	if len(sf.Days) == 0 {
		return nil, fmt.Errorf("schedule file %s has no days", path)
	}

	return &sf, nil
}

// Save writes the schedule file as YAML
func (sf *ScheduleFile) Save(path string) error {
	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("failed to encode schedule file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schedule file: %w", err)
	}
	return nil
}
