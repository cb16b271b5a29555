// Package images provides recipe image detection, processing, and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at the given directory, creating
// it if needed.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores image data under the given filename.
// Filenames carry their extension, e.g. "recipe-abc123.jpg".
// The data is written to a temp file and renamed into place, so a
// concurrent Get never observes a partial write.
func (s *Storage) Save(filename string, imgData []byte) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp image file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(imgData); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close image file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod image file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(filename)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename image file: %w", err)
	}
	return nil
}

// Get retrieves image data by filename.
func (s *Storage) Get(filename string) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found: %s: %w", filename, err)
		}
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

// Exists checks if an image file exists.
func (s *Storage) Exists(filename string) bool {
	if filename == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes an image file. Deleting a missing file is not an error.
func (s *Storage) Delete(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Hash computes the SHA256 hash of an image.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(filename string) (string, error) {
	data, err := s.Get(filename)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a stored image.
// The filename is sanitized to its base name so callers cannot escape
// the storage directory.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}
