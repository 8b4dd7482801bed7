package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// CachedFlags remembers the last explicitly passed flag values per command
// so later runs can be compared against them. A cached value that
// contradicts a newly passed one is a conflict; the new value always wins
// and the conflict is reported.
type CachedFlags struct {
	Commands map[string]map[string]string `yaml:"commands"`
}

func LoadCache(path string) (*CachedFlags, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &CachedFlags{}, nil
		}
		return nil, err
	}
	var cache CachedFlags
	if err := yaml.Unmarshal(content, &cache); err != nil {
		return nil, fmt.Errorf("error parsing cached flags: %v", err)
	}
	return &cache, nil
}

func (c *CachedFlags) Save(path string) error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing cached flags: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func (c *CachedFlags) Get(command, flag string) (string, bool) {
	value, ok := c.Commands[command][flag]
	return value, ok
}

func (c *CachedFlags) Set(command, flag, value string) {
	if c.Commands == nil {
		c.Commands = make(map[string]map[string]string)
	}
	if c.Commands[command] == nil {
		c.Commands[command] = make(map[string]string)
	}
	c.Commands[command][flag] = value
}

// Conflict is a cached flag value contradicted by an explicit one.
type Conflict struct {
	Flag   string
	Cached string
	Given  string
}

func (c Conflict) String() string {
	return fmt.Sprintf("--%s was cached as %s but given as %s (using %s)", c.Flag, c.Cached, c.Given, c.Given)
}

// DetectConflicts compares explicitly given flag values against the cache
// for one command. Results come back sorted by flag name.
func (c *CachedFlags) DetectConflicts(command string, given map[string]string) []Conflict {
	var conflicts []Conflict
	for flag, value := range given {
		if cached, ok := c.Get(command, flag); ok && cached != value {
			conflicts = append(conflicts, Conflict{Flag: flag, Cached: cached, Given: value})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Flag < conflicts[j].Flag })
	return conflicts
}

func CachePath() string {
	return filepath.Join(Dir(), "cache.yaml")
}
