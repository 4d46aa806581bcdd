package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNotImage         = errors.New("uploaded file is not a valid image")
)

// PosterStorage writes uploaded posters to a local directory that is
// served at BaseURL + "/uploads/".
type PosterStorage struct {
	Dir      string
	BaseURL  string
	MaxWidth int
}

func NewPosterStorage(dir, baseURL string, maxWidth int) *PosterStorage {
	return &PosterStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxWidth: maxWidth}
}

// GenerateFilename returns timestamp + random suffix + original extension
func GenerateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
}

// Save stores the image read from src and returns its filename and public URL.
// Images wider than MaxWidth are scaled down keeping their aspect ratio.
func (ps *PosterStorage) Save(src io.Reader, originalName string) (string, string, error) {
	format, err := imaging.FormatFromFilename(originalName)
	if err != nil {
		return "", "", ErrUnsupportedImage
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", ErrNotImage
	}

	if err := os.MkdirAll(ps.Dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}
	filename := GenerateFilename(originalName)
	path := filepath.Join(ps.Dir, filename)

	if ps.MaxWidth > 0 && img.Bounds().Dx() > ps.MaxWidth {
		resized := imaging.Resize(img, ps.MaxWidth, 0, imaging.Lanczos)
		err := writeFile(path, func(w io.Writer) error {
			return imaging.Encode(w, resized, format)
		})
		if err != nil {
			return "", "", err
		}
	} else if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write poster: %w", err)
	}

	return filename, ps.URL(filename), nil
}

// writeFile creates path and fills it with encode. A partially written file
// is removed when encoding or closing fails.
func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create poster file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode poster: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close poster file: %w", err)
	}
	return nil
}

// URL is the public address of a stored poster
func (ps *PosterStorage) URL(filename string) string {
	return ps.BaseURL + "/uploads/" + filename
}
