package config

import (
	"log/slog"
	"os"
)

// ProjectConfigFile is the config file looked for in the working
// directory when no explicit path is given.
const ProjectConfigFile = "lifestream.yaml"

// Loader handles configuration loading
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with the following precedence:
// 1. Default config
// 2. lifestream.yaml in the working directory, if present
// 3. The explicit path, when given (required to exist)
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		config, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))

		if err := config.Validate(); err != nil {
			return nil, err
		}
		return config, nil
	}

	config := DefaultConfig()
	if _, err := os.Stat(ProjectConfigFile); err == nil {
		config, err = LoadFromFile(ProjectConfigFile)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", ProjectConfigFile))
	} else {
		l.logger.Debug("No project config found, using defaults")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
