package images

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalProvider keeps images as plain files under a root directory.
type LocalProvider struct {
	root string
}

func NewLocalProvider(root string) (*LocalProvider, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, err
	}
	return &LocalProvider{root: root}, nil
}

func (l *LocalProvider) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	f, err := os.Create(filepath.Join(l.root, key))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f, err := os.Open(filepath.Join(l.root, key))
	if os.IsNotExist(err) {
		return nil, "", ErrNotExist
	} else if err != nil {
		return nil, "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

func (l *LocalProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.root, key))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LocalProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.root, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
