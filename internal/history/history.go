// Package history keeps a capped record of past requests on disk.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Daihongyi/surf/internal/config"
)

const maxEntries = 1000

type Entry struct {
	ID           string            `yaml:"id"`
	Timestamp    time.Time         `yaml:"timestamp"`
	Method       string            `yaml:"method"`
	URL          string            `yaml:"url"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	StatusCode   int               `yaml:"status_code,omitempty"`
	ResponseTime int64             `yaml:"response_time_ms,omitempty"`
	ResponseSize int64             `yaml:"response_size,omitempty"`
	Success      bool              `yaml:"success"`
	ErrorMessage string            `yaml:"error,omitempty"`
}

type History struct {
	Entries []Entry `yaml:"entries"`
}

func NewEntry(method, url string, headers map[string]string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Method:    method,
		URL:       url,
		Headers:   headers,
	}
}

// WithResponse fills in the response half of an entry. Success is any
// status in [200, 400).
func (e Entry) WithResponse(statusCode int, responseTime time.Duration, responseSize int64) Entry {
	e.StatusCode = statusCode
	e.ResponseTime = responseTime.Milliseconds()
	e.ResponseSize = responseSize
	e.Success = statusCode >= 200 && statusCode < 400
	return e
}

func (e Entry) WithError(message string) Entry {
	e.ErrorMessage = message
	e.Success = false
	return e
}

func Load(path string) (*History, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, err
	}
	var history History
	if err := yaml.Unmarshal(content, &history); err != nil {
		return nil, fmt.Errorf("error parsing history file: %v", err)
	}
	return &history, nil
}

func (h *History) Save(path string) error {
	content, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("error serializing history: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// Add appends an entry, dropping the oldest ones past the cap.
func (h *History) Add(entry Entry) {
	h.Entries = append(h.Entries, entry)
	if len(h.Entries) > maxEntries {
		h.Entries = h.Entries[len(h.Entries)-maxEntries:]
	}
}

// Recent returns up to limit of the newest entries, oldest first.
func (h *History) Recent(limit int) []Entry {
	start := 0
	if len(h.Entries) > limit {
		start = len(h.Entries) - limit
	}
	return h.Entries[start:]
}

func (h *History) Search(query string) []Entry {
	var matches []Entry
	for _, entry := range h.Entries {
		if strings.Contains(entry.URL, query) ||
			strings.Contains(entry.Method, query) ||
			strings.Contains(entry.ErrorMessage, query) {
			matches = append(matches, entry)
		}
	}
	return matches
}

func (h *History) GetByID(id string) (Entry, bool) {
	for _, entry := range h.Entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

func (h *History) Clear() {
	h.Entries = nil
}

func DefaultPath() string {
	return filepath.Join(config.Dir(), "history.yaml")
}
