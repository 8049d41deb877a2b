package app

import (
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/imagej/ijc/internal/logger"
)

// Uploader stores a local file on the server and returns its object id.
type Uploader interface {
	UploadObject(ctx context.Context, filename string, r io.Reader, typeHint string) (string, error)
}

// FileOpener opens a local file for upload.
type FileOpener func(path string) (io.ReadCloser, error)

// OpenLocalFile opens path on the local filesystem.
func OpenLocalFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ResolveUploads uploads every file input with a selected path concurrently
// and returns parameter name to object id. It returns only after every
// upload has settled. If any upload fails the whole resolution fails with an
// *UploadError; objects already uploaded stay on the server.
func ResolveUploads(ctx context.Context, up Uploader, requests []InputRequest, open FileOpener) (map[string]string, error) {
	if open == nil {
		open = OpenLocalFile
	}

	var (
		g   errgroup.Group
		mu  sync.Mutex
		ids = make(map[string]string)
	)
	for _, r := range requests {
		if r.Kind != RequestFile || r.File.Path == "" {
			continue
		}
		name, path := r.Name, r.File.Path
		g.Go(func() error {
			id, err := uploadOne(ctx, up, open, path)
			if err != nil {
				logger.Warn("upload failed", "param", name, "path", path, "err", err)
				return &UploadError{Param: name, Path: path, Err: err}
			}
			logger.Debug("uploaded", "param", name, "path", path, "id", id)
			mu.Lock()
			ids[name] = id
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

func uploadOne(ctx context.Context, up Uploader, open FileOpener, path string) (string, error) {
	f, err := open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return up.UploadObject(ctx, path, f, "")
}
