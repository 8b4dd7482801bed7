// Package config handles the on-disk configuration and named request
// profiles stored under the user config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultTimeout   int                `yaml:"default_timeout"`
	DefaultUserAgent string             `yaml:"default_user_agent"`
	MaxRedirects     int                `yaml:"max_redirects"`
	DefaultHeaders   map[string]string  `yaml:"default_headers"`
	Profiles         map[string]Profile `yaml:"profiles"`
}

// Profile is a named bundle of request defaults applied via --profile.
type Profile struct {
	Name            string            `yaml:"name"`
	BaseURL         string            `yaml:"base_url,omitempty"`
	Headers         map[string]string `yaml:"headers"`
	Timeout         int               `yaml:"timeout,omitempty"`
	FollowRedirects bool              `yaml:"follow_redirects"`
}

func Default() *Config {
	return &Config{
		DefaultTimeout:   30,
		DefaultUserAgent: "surf/0.2.1",
		MaxRedirects:     10,
		DefaultHeaders:   map[string]string{"User-Agent": "surf/0.2.1"},
		Profiles:         make(map[string]Profile),
	}
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func (c *Config) GetProfile(name string) (Profile, bool) {
	profile, ok := c.Profiles[name]
	return profile, ok
}

func (c *Config) AddProfile(profile Profile) {
	c.Profiles[profile.Name] = profile
}

func (c *Config) RemoveProfile(name string) bool {
	if _, ok := c.Profiles[name]; !ok {
		return false
	}
	delete(c.Profiles, name)
	return true
}

// Dir returns the surf config directory, creating nothing.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "surf")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
