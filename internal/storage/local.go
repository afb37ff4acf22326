package storage

import (
	"context"
	"os"
	"path/filepath"
)

type LocalProvider struct {
	// RootPath resolves relative paths (e.g., "./media")
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{RootPath: root}
}

func (l *LocalProvider) Get(ctx context.Context, loc Location) (*FileObject, error) {
	path := loc.Path
	if !filepath.IsAbs(path) && l.RootPath != "" {
		path = filepath.Join(l.RootPath, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileObject{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   "application/octet-stream", // Local files usually don't store this
		LastModified:  stat.ModTime(),
	}, nil
}
