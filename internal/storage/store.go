package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotExist is returned by Open when no object is stored under the key.
var ErrNotExist = errors.New("storage: object does not exist")

// Store is implemented by every storage driver.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MinioStore)(nil)
)

const (
	DriverFilesystem = "filesystem"
	DriverMinio      = "minio"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	Path   string

	MinioEndpoint  string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// New builds the store described by opts. Relative filesystem paths are
// resolved against the working directory.
func New(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFilesystem:
		path := opts.Path
		if path == "" {
			path = "./storage"
		}
		if !filepath.IsAbs(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
		return NewFileStore(path)
	case DriverMinio:
		return NewMinioStore(ctx, MinioOptions{
			Endpoint:  opts.MinioEndpoint,
			Bucket:    opts.MinioBucket,
			AccessKey: opts.MinioAccessKey,
			SecretKey: opts.MinioSecretKey,
			UseSSL:    opts.MinioUseSSL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
