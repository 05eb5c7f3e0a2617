// Package storage keeps uploaded files on the local filesystem and
// hands out stable /uploads/... URL paths for retrieval.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// URLPrefix is the public path uploads are served under
const URLPrefix = "/uploads"

// Storage represents the file store for assignment materials and
// submission attachments
type Storage struct {
	basePath    string
	maxFileSize int64
}

// NewStorage creates a file store rooted at basePath
func NewStorage(basePath string, maxFileSize int64) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Storage{
		basePath:    basePath,
		maxFileSize: maxFileSize,
	}, nil
}

// BasePath returns the directory uploads are stored in
func (s *Storage) BasePath() string {
	return s.basePath
}

// SaveFile stores an uploaded file under a category directory and
// returns its URL path
func (s *Storage) SaveFile(file *multipart.FileHeader, category string) (string, error) {
	if file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	fileName := uuid.New().String() + filepath.Ext(file.Filename)
	filePath := filepath.Join(s.basePath, category, fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create file directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	// Generate a preview for images
	if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		if err := s.createThumbnail(filePath); err != nil {
			fmt.Printf("Failed to create thumbnail: %v\n", err)
		}
	}

	return URLPrefix + "/" + category + "/" + fileName, nil
}

// DeleteFile removes a stored file and its thumbnail by URL path
func (s *Storage) DeleteFile(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, URLPrefix+"/")
	filePath := filepath.Join(s.basePath, filepath.FromSlash(rel))

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	thumbPath := thumbnailPath(filePath)
	if err := os.Remove(thumbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}

// createThumbnail writes a 300x300 preview next to an image
func (s *Storage) createThumbnail(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}
	thumbnail := imaging.Resize(img, 300, 300, imaging.Lanczos)
	return imaging.Save(thumbnail, thumbnailPath(filePath), imaging.JPEGQuality(85))
}

// thumbnailPath derives the preview path for an image file
func thumbnailPath(filePath string) string {
	return strings.Replace(filePath, filepath.Ext(filePath), "_thumb.jpg", 1)
}
