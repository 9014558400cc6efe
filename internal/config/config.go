package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	UserAgent string `yaml:"user_agent"`

	Output       string `yaml:"output"`
	ImageWorkers int    `yaml:"image_workers"`
	TimeoutSec   int    `yaml:"timeout_sec"`

	CFBypass bool `yaml:"cf_bypass"`
	Debug    bool `yaml:"debug"`
}

type Options struct {
	IgnoreConfig bool
	Debug        bool
	Username     string
	Password     string
	UserAgent    string
	Output       string
	ImageWorkers int
	TimeoutSec   int
	CFBypass     bool
}

func DefaultConfig() *Config {
	return &Config{
		Username:     "",
		Password:     "",
		UserAgent:    "",
		Output:       ".",
		ImageWorkers: 5,
		TimeoutSec:   30,
		CFBypass:     false,
		Debug:        false,
	}
}

// Get implements the settings storage the adapter reads credentials from.
func (c *Config) Get(key string) string {
	switch key {
	case "username":
		return c.Username
	case "password":
		return c.Password
	}
	return ""
}

func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "madokami", "config.yaml"), nil
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// credentials live in here
	return os.WriteFile(path, data, 0600)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged loads the config file (if any) and overlays CLI options on
// top. The returned string reports where the config came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	path, err := ConfigPath()
	if err != nil {
		return nil, "", err
	}

	if _, serr := os.Stat(path); serr != nil {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `madokami config init` to create an actual config\n", nil
	}

	cfg, err := loadYAML(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, path, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Username != "" {
		c.Username = o.Username
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.TimeoutSec != 0 {
		c.TimeoutSec = o.TimeoutSec
	}
	if o.CFBypass {
		c.CFBypass = true
	}
	if o.Debug {
		c.Debug = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.ImageWorkers == 0 {
		c.ImageWorkers = 5
	}
	if c.TimeoutSec == 0 {
		c.TimeoutSec = 30
	}
}

func (c *Config) Print() {
	if c.Username != "" {
		fmt.Printf(" -username: %s\n", c.Username)
	}
	if c.Password != "" {
		fmt.Printf(" -password: (set)\n")
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	fmt.Printf(" -output: %s\n", c.Output)
	fmt.Printf(" -image_workers: %d\n", c.ImageWorkers)
	fmt.Printf(" -timeout_sec: %d\n", c.TimeoutSec)
	if c.CFBypass {
		fmt.Printf(" -cf_bypass: %t\n", c.CFBypass)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
}
