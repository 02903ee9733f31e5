package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// LocalDriver keeps photos in a directory on disk.
type LocalDriver struct {
	root string
}

// NewLocalDriver creates root if needed.
func NewLocalDriver(root string) (*LocalDriver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return &LocalDriver{root: abs}, nil
}

// Root is the absolute upload directory, used for static serving.
func (d *LocalDriver) Root() string {
	return d.root
}

func (d *LocalDriver) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(d.root, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

func (d *LocalDriver) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(d.root, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (d *LocalDriver) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(filepath.Join(d.root, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ObjectInfo{}, ErrPhotoNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("open %s: %w", key, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("seek %s: %w", key, err)
	}

	return f, ObjectInfo{Size: st.Size(), ContentType: http.DetectContentType(head[:n])}, nil
}
