package cache

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileCache persists entries as files under Dir, one file per key.
type FileCache struct {
	Dir string
}

var _ ListCache = (*FileCache)(nil)

func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

func (fc *FileCache) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(fc.Dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (fc *FileCache) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(fc.Dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fc *FileCache) Put(_ context.Context, key, value string, opts PutOptions) error {
	filePath := filepath.Join(fc.Dir, key)
	if opts.Condition == PutIfNoneMatch {
		if _, err := os.Stat(filePath); err == nil {
			return ErrAlreadyExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(value), 0644)
}

func (fc *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(fc.Dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (fc *FileCache) List(_ context.Context, prefix string) ([]string, error) {
	root := filepath.Join(fc.Dir, prefix)
	var keys []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(filepath.ToSlash(path), filepath.ToSlash(root))
		keys = append(keys, strings.TrimPrefix(rel, "/"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
