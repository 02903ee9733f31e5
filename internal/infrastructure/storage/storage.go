package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrInvalidPhotoKey = errors.New("invalid photo name")
)

// ObjectInfo describes a stored photo when it is read back.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Driver is the raw object store underneath PhotoStorage.
type Driver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Remove deletes key. A missing key is not an error.
	Remove(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

// PhotoStorage stores uploaded photos under generated unique names.
type PhotoStorage struct {
	driver    Driver
	processor *ImageProcessor
}

func NewPhotoStorage(driver Driver, processor *ImageProcessor) *PhotoStorage {
	return &PhotoStorage{driver: driver, processor: processor}
}

// GeneratePhotoName returns "<uuid>_<base name>" so concurrent uploads never collide.
func GeneratePhotoName(originalName string) string {
	return uuid.NewString() + "_" + cleanFileName(originalName)
}

// Save validates and stores the photo read from r and returns the stored name.
func (s *PhotoStorage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	// Read one byte past the limit so oversize uploads are detected without buffering them whole.
	data, err := io.ReadAll(io.LimitReader(r, s.processor.MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	processed, err := s.processor.ProcessImage(data, originalName)
	if err != nil {
		return "", err
	}

	name := GeneratePhotoName(originalName)
	if err := s.driver.Put(ctx, name, processed, http.DetectContentType(processed)); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return name, nil
}

// Delete removes a stored photo. Empty names and missing files are ignored.
func (s *PhotoStorage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	if err := validateKey(name); err != nil {
		return err
	}
	return s.driver.Remove(ctx, name)
}

// Open streams a stored photo back.
func (s *PhotoStorage) Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error) {
	if err := validateKey(name); err != nil {
		return nil, ObjectInfo{}, err
	}
	return s.driver.Get(ctx, name)
}

func validateKey(name string) error {
	if name == "" || name != cleanFileName(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPhotoKey, name)
	}
	return nil
}
