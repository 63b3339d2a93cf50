package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type diskStorage struct {
	root    string
	baseURL string
}

// NewDiskStorage stores files under root, they are expected to be served
// from baseURL (see the static route of the api).
func NewDiskStorage(root, baseURL string) (FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &diskStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (d *diskStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	target, err := d.resolve(key)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (d *diskStorage) Delete(ctx context.Context, key string) error {
	target, err := d.resolve(key)
	if err != nil {
		return err
	}

	err = os.Remove(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (d *diskStorage) URL(key string) string {
	return d.baseURL + "/" + key
}

// resolve refuses keys escaping the storage root.
func (d *diskStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}

	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", errors.New("invalid key: " + key)
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}
