// Package bot assembles the Spring Battle application: configuration,
// persistence, the conversation engine, and the Telegram wiring.
package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/ojakoo/springbot/core/config"
	coredatabase "github.com/ojakoo/springbot/core/database"
)

// BattleConfig holds settings specific to this bot.
type BattleConfig struct {
	// Contact is the handle users are told to message on failures.
	Contact string `yaml:"contact" envconfig:"BATTLE_CONTACT"`
	// Seed loads development fixtures after migrations.
	Seed bool `yaml:"seed" envconfig:"BATTLE_SEED"`
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Battle   BattleConfig        `yaml:"battle"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads the YAML file, applies environment overrides, and
// validates the core section.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}
