// Package cache is a small durable key/value store used to carry state
// between one-shot invocations, most importantly whether the previous remote
// call succeeded and, if not, what went wrong.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// KeyLastRequestOK records whether the previous completion call succeeded.
	KeyLastRequestOK = "last_chat_request_successful"
	// KeyLastError holds the structured detail of the last failed call.
	KeyLastError = "last_error_detail"

	cacheFileName = "cache.json"
)

// ErrorDetail is the side-channel record of a failed completion call.
type ErrorDetail struct {
	Model      string         `json:"model"`
	Message    string         `json:"message"`
	Prompt     string         `json:"prompt"`
	Parameters map[string]any `json:"parameters"`
}

// Cache stores its keys in one JSON file under the data directory.
type Cache struct {
	dir  string
	path string
}

func New(dir string) *Cache {
	return &Cache{dir: dir, path: filepath.Join(dir, cacheFileName)}
}

// Get unmarshals the value stored under key into out. An absent file or key
// is a valid result (first run) and reports found=false without error.
func (c *Cache) Get(key string, out any) (found bool, err error) {
	entries, err := c.load()
	if err != nil {
		return false, err
	}
	raw, ok := entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// GetBool is Get specialized for flag keys.
func (c *Cache) GetBool(key string) (value, found bool, err error) {
	found, err = c.Get(key, &value)
	return value, found, err
}

// Set overwrites the value under key unconditionally, creating the data
// directory and cache file as needed.
func (c *Cache) Set(key string, v any) error {
	entries, err := c.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	entries[key] = raw

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

func (c *Cache) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt cache file is treated as empty rather than fatal.
		return map[string]json.RawMessage{}, nil
	}
	return entries, nil
}
