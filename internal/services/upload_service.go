package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// StoredFile describes one file held by the image store.
type StoredFile struct {
	Name    string
	ModTime time.Time
}

// FileStoreProvider defines the interface for the article image store.
type FileStoreProvider interface {
	Upload(file multipart.File, header *multipart.FileHeader, previous string) (string, error)
	Remove(name string) error
	List() ([]StoredFile, error)
}

// FileStore keeps uploaded article images on disk under a single base
// directory, named by a fresh UUID so original filenames never collide.
type FileStore struct {
	basePath string
}

// NewFileStore creates a new FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Upload stores a new image and returns its reference. When previous is
// non-empty the old file is removed, giving in-place replacement semantics
// for edits; pass "" when there is nothing to replace.
func (s *FileStore) Upload(file multipart.File, header *multipart.FileHeader, previous string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%q: %w", header.Filename, ErrUnsupportedImage)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("could not create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name()) // Clean up partial file
		return "", fmt.Errorf("could not write upload file: %w", err)
	}

	if previous != "" {
		if err := s.Remove(previous); err != nil {
			log.Warn().Err(err).Str("file", previous).Msg("Failed to remove replaced image")
		}
	}
	return name, nil
}

// Remove deletes a stored image by its reference.
func (s *FileStore) Remove(name string) error {
	// Reject anything that could escape the base directory.
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid image reference %q", name)
	}
	return os.Remove(filepath.Join(s.basePath, name))
}

// List returns every file currently in the store.
func (s *FileStore) List() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	var files []StoredFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, StoredFile{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}
