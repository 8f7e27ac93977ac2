package kvstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"r2r/internal/fsutil"
)

// Dir stores each key as one file under a directory. File names are the
// base64url form of the key so any key is a safe name.
type Dir struct {
	root string
}

func OpenDir(root string) (*Dir, error) {
	if err := fsutil.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("open dir store %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

func (d *Dir) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(d.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (d *Dir) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fsutil.AtomicWrite(d.path(key), []byte(value), 0o600)
}

func (d *Dir) Close() error { return nil }

func ensureParent(path string) error {
	return fsutil.EnsureDir(filepath.Dir(path))
}
