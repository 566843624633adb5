package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/amburosesekar/mathoptinterface/pkg/caching"
)

const (
	SatBackend  = "sat"
	MockBackend = "mock"
)

type File struct {
	Bridgectl Config `yaml:"bridgectl"`
}

type Config struct {
	// Backend is the optimizer behind the cache, sat or mock.
	Backend   string        `yaml:"backend"`
	Mode      string        `yaml:"mode"`
	TimeLimit time.Duration `yaml:"timeLimit"`
	// MaxWeight bounds the rows the sat backend encodes. Zero keeps its
	// default.
	MaxWeight int  `yaml:"maxWeight"`
	Silent    bool `yaml:"silent"`
	Metrics   bool `yaml:"metrics"`
}

// Default is the configuration used without a file.
func Default() *Config {
	return &Config{
		Backend: SatBackend,
		Mode:    caching.Automatic.String(),
	}
}

func LoadConfig(cfgPath string) (*Config, error) {
	d, err := os.ReadFile(os.ExpandEnv(cfgPath))
	if err != nil {
		return nil, err
	}

	cfgFile := File{Bridgectl: *Default()}
	if err := yaml.UnmarshalStrict(d, &cfgFile); err != nil {
		return nil, err
	}

	config := &cfgFile.Bridgectl
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", cfgPath, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case SatBackend, MockBackend:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := caching.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %s", c.TimeLimit)
	}
	if c.MaxWeight < 0 {
		return fmt.Errorf("max weight must not be negative, got %d", c.MaxWeight)
	}
	return nil
}
