package chatbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIntents returns a small intent table for a fresh install.
func DefaultIntents() []IntentRecord {
	return []IntentRecord{
		{
			Tag:       "greeting",
			Patterns:  []string{"Hi", "Hello", "Good day", "Is anyone there?"},
			Responses: []string{"Hello!", "Hi there, how can I help?", "Good to see you again!"},
		},
		{
			Tag:       "goodbye",
			Patterns:  []string{"Bye", "See you later", "Goodbye"},
			Responses: []string{"See you!", "Have a nice day!", "Bye! Come back again soon."},
		},
		{
			Tag:       "thanks",
			Patterns:  []string{"Thanks", "Thank you", "That's helpful"},
			Responses: []string{"Happy to help!", "Any time!", "My pleasure."},
		},
	}
}

// EnsureIntentFile writes records to path unless the file already exists.
// It reports whether a file was created. The format follows the extension.
func EnsureIntentFile(path string, records []IntentRecord) (bool, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return false, nil
	}
	clean = filepath.Clean(clean)
	if _, err := os.Stat(clean); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat intent file: %w", err)
	}
	if dir := filepath.Dir(clean); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create intent dir: %w", err)
		}
	}
	doc := struct {
		Intents []IntentRecord `json:"intents" yaml:"intents"`
	}{Intents: records}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(clean)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return false, fmt.Errorf("encode intent file: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o644); err != nil {
		return false, fmt.Errorf("write intent file: %w", err)
	}
	return true, nil
}
