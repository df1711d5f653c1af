// Package storage holds product image stores: a local directory served by the
// API itself and a GridFS bucket for document-store deployments.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var (
	_ ports.ImageStore  = (*Local)(nil)
	_ ports.ImageReader = (*Local)(nil)
)

// Local writes uploads below root and returns baseURL/media/<key>.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{root: filepath.Clean(root), baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return PublicURL(l.baseURL, key), nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.Wrap(failure.NotFound, err, "image not found")
		}
		return nil, err
	}
	return file, nil
}

// resolve maps key below root, refusing anything that escapes it.
func (l *Local) resolve(key string) (string, error) {
	cleanKey := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if cleanKey == "" {
		return "", failure.New(failure.NotFound, "image not found")
	}
	target := filepath.Join(l.root, filepath.FromSlash(cleanKey))
	if target != l.root && !strings.HasPrefix(target, l.root+string(os.PathSeparator)) {
		return "", failure.New(failure.PermissionDenied, "refusing path outside media root")
	}
	return target, nil
}

// PublicURL is where the API serves key.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/media/" + strings.TrimPrefix(key, "/")
}
