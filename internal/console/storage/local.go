package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectKey builds the storage key for a new upload: a category prefix, a
// YYYY/MM shard, and a uuid to keep same-named files apart.
func ObjectKey(prefix, fileName string) string {
	now := time.Now()
	return path.Join(prefix, now.Format("2006/01"), uuid.New().String()[:8]+"_"+path.Base(fileName))
}

// LocalStore writes uploads under baseDir and serves them from baseURL. It is
// the default when no S3 bucket is configured.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := CheckSize(size); err != nil {
		return "", err
	}

	full := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxUploadSize)); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	full := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
