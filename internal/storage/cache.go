package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Opener defines what the cache needs from the storage layer.
type Opener interface {
	Open(ctx context.Context, uri string) (*FileObject, error)
}

type download struct {
	done chan struct{}
	err  error
}

// CacheManager stages remote sources on local disk so the engine can probe and
// play them. Staged files live only as long as the session that requested them.
type CacheManager struct {
	storage Opener
	baseDir string
	mu      sync.Mutex
	pending map[string]*download
}

func NewCacheManager(storage Opener, tmpDir string) *CacheManager {
	cacheDir := filepath.Join(tmpDir, "player_staging")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create staging dir: %v", err)
	}

	return &CacheManager{
		storage: storage,
		baseDir: cacheDir,
		pending: make(map[string]*download),
	}
}

// GetLocalPath returns a local file for uri, downloading it once.
// Local files are returned as they are.
func (c *CacheManager) GetLocalPath(ctx context.Context, uri string) (string, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return "", err
	}
	if loc.Scheme == SchemeFile {
		return loc.Path, nil
	}

	localPath := c.filePath(loc)

	// 1. Already staged
	if c.exists(localPath) {
		return localPath, nil
	}

	// 2. Someone else is downloading it
	c.mu.Lock()
	if d, ok := c.pending[uri]; ok {
		c.mu.Unlock()
		select {
		case <-d.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if d.err != nil {
			return "", d.err
		}
		return localPath, nil
	}
	// finished between the first check and the lock
	if c.exists(localPath) {
		c.mu.Unlock()
		return localPath, nil
	}

	// 3. Register our intent to download
	d := &download{done: make(chan struct{})}
	c.pending[uri] = d
	c.mu.Unlock()

	defer func() {
		close(d.done)
		c.mu.Lock()
		delete(c.pending, uri)
		c.mu.Unlock()
	}()

	log.Printf("📥 Staging %s", loc.Name())
	if d.err = c.download(ctx, uri, localPath); d.err != nil {
		return "", d.err
	}
	return localPath, nil
}

// Remove deletes the staged copy of uri, if any.
func (c *CacheManager) Remove(uri string) {
	loc, err := ParseLocation(uri)
	if err != nil || loc.Scheme == SchemeFile {
		return
	}
	if err := os.Remove(c.filePath(loc)); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove staged file: %v", err)
	}
}

func (c *CacheManager) filePath(loc Location) string {
	sum := sha1.Sum([]byte(loc.Raw))
	return filepath.Join(c.baseDir, hex.EncodeToString(sum[:8])+filepath.Ext(loc.Name()))
}

func (c *CacheManager) exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func (c *CacheManager) download(ctx context.Context, uri, dest string) error {
	tmp := dest + ".tmp"

	obj, err := c.storage.Open(ctx, uri)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, obj.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	// Rename to final file (Atomic)
	return os.Rename(tmp, dest)
}
