package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrPhotoTooLarge = errors.New("photo exceeds maximum size")
	ErrInvalidImage  = errors.New("photo is not a supported image")
)

// ImageProcessor validates uploaded photos and shrinks oversized ones.
type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // longest edge in px, 0 disables resizing
}

func NewImageProcessor(maxSize int64, maxDimension int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &ImageProcessor{MaxSize: maxSize, MaxDimension: maxDimension}
}

// ValidateImage accepts jpeg, png and gif under MaxSize and returns the decoded config.
func (p *ImageProcessor) ValidateImage(data []byte) (image.Config, string, error) {
	if int64(len(data)) > p.MaxSize {
		return image.Config{}, "", fmt.Errorf("%w: %dMB limit", ErrPhotoTooLarge, p.MaxSize/(1024*1024))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	switch format {
	case "jpeg", "png", "gif":
		return cfg, format, nil
	default:
		return image.Config{}, "", fmt.Errorf("%w: format %s not allowed", ErrInvalidImage, format)
	}
}

// ProcessImage validates data and, when either edge exceeds MaxDimension,
// re-encodes a downscaled copy in the same format. Small images pass through untouched.
func (p *ImageProcessor) ProcessImage(data []byte, filename string) ([]byte, error) {
	cfg, format, err := p.ValidateImage(data)
	if err != nil {
		return nil, err
	}

	if p.MaxDimension <= 0 || (cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension) {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	outFormat, err := imaging.FormatFromFilename(filename)
	if err != nil {
		outFormat, err = imaging.FormatFromExtension(format)
		if err != nil {
			outFormat = imaging.JPEG
		}
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, outFormat, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode resized photo: %w", err)
	}
	return buf.Bytes(), nil
}

// cleanFileName keeps only the base name of a client supplied file name.
// Browsers on Windows may send the full path with backslashes.
func cleanFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." || base == "" {
		return "photo"
	}
	return base
}
