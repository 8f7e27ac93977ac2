package r2rconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Store is the key-value capability the persistence functions need.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Parse decodes, validates and materializes a JSON document.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (*Config, error) {
	raw, err := decodeDocument(data, source)
	if err != nil {
		return nil, err
	}
	if _, err := Validate(raw, DefaultSchema); err != nil {
		return nil, err
	}
	return Materialize(raw)
}

// LoadFromFile reads and parses the document at path. Files with a .toml
// extension are decoded as TOML; everything else is JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data, path)
}

// ReadFile returns the document at path as JSON, converting TOML files.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("CFG_READ: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		return data, nil
	}
	converted, err := tomlToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("CFG_PARSE_TOML: %s: %w", path, err)
	}
	return converted, nil
}

// LoadFromStore reads the document stored under key.
func LoadFromStore(ctx context.Context, store Store, key string) (*Config, error) {
	value, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("CFG_STORE_READ: key %q: %w", key, err)
	}
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}
	return parse([]byte(value), "key "+key)
}

// SaveToStore writes the canonical form of cfg under key with a single Set.
func SaveToStore(ctx context.Context, cfg *Config, store Store, key string) error {
	blob, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, string(blob)); err != nil {
		return &StoreWriteError{Key: key, Err: err}
	}
	return nil
}

// tomlToJSON re-encodes a TOML document so it follows the JSON value model.
func tomlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
