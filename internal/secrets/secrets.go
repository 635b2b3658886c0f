// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized key files: google-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	GoogleAPIKey    = "google-api-key"
	AnthropicAPIKey = "anthropic-api-key"
)

// Set maps secret names to their values.
type Set map[string]string

// Load reads all files in dir and returns a Set of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty Set.
// Unreadable files produce a warning on warn but do not abort.
func Load(dir string, warn io.Writer) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}

	return set, nil
}

// Get returns the secret stored under key, or fallback when the key is absent.
func (s Set) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Keys returns the secret names in sorted order. Values are never listed.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
