package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Journals []journalSchema `toml:"journals"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported catalog schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type journalSchema struct {
	ID       string  `toml:"id"`
	Name     string  `toml:"name"`
	Category string  `toml:"category,omitempty"`
	Impact   float64 `toml:"impact,omitempty"`
}
