// Package file stores key-value documents as files in a local directory.
// It is the on-device store: one JSON file per key.
package file

import (
	"context"
	"errors"
	"fitnote/planner/internal/repository"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// fileKVRepository implements repository.KeyValueStore on top of an afero filesystem.
type fileKVRepository struct {
	fs  afero.Fs
	dir string
}

// NewFileKVRepository creates the directory if needed and returns a store rooted in it.
// Pass afero.NewOsFs() in production and afero.NewMemMapFs() in tests.
func NewFileKVRepository(fs afero.Fs, dir string) (repository.KeyValueStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &fileKVRepository{fs: fs, dir: dir}, nil
}

func (r *fileKVRepository) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

// Get reads the file for key.
func (r *fileKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(r.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put writes to a temp file and renames it over the old one, so readers never see
// a half-written document.
func (r *fileKVRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := r.path(key)
	if err != nil {
		return err
	}
	// 1. Write the new bytes beside the target
	tmp, err := afero.TempFile(r.fs, r.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		_ = r.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return err
	}
	// 2. Swap it in
	if err := r.fs.Rename(tmpName, p); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("%w: %v", repository.ErrUpdateFailed, err)
	}
	return nil
}

// Delete removes the file for key.
func (r *fileKVRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := r.path(key)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", repository.ErrDeleteFailed, err)
	}
	return nil
}
