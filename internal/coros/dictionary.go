package coros

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Dictionary maps COROS i18n keys to natural-language text. A nil or empty
// dictionary leaves keys untranslated.
type Dictionary map[string]string

// LoadDictionary reads a key-to-text JSON dictionary from disk. A missing
// file is not an error: workout names simply stay untranslated, which
// mirrors how the plan page behaves without its language bundle.
func LoadDictionary(path string, log *slog.Logger) (Dictionary, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("dictionary file not found, workout names stay untranslated", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing dictionary %s: %w", path, err)
	}
	return d, nil
}

// Translate returns the natural-language text for a key, or the key itself
// when unknown.
func (d Dictionary) Translate(key string) string {
	if key == "" {
		return ""
	}
	if v, ok := d[key]; ok {
		return v
	}
	return key
}

// TranslateMax translates a key and truncates the result to max runes,
// appending an ellipsis. A max of 0 means no limit.
func (d Dictionary) TranslateMax(key string, max int) string {
	s := d.Translate(key)
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
