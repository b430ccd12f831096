package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore implements Store on the local filesystem under a base directory.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a disk store rooted at baseDir.
func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: filepath.Clean(baseDir)}
}

// Save writes the reader to disk under a collision-resistant generated name:
// <field>-<unixMillis>-<randomInt><origExtension>.
func (s *DiskStore) Save(ctx context.Context, field, originalName string, r io.Reader) (SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return SavedFile{}, err
	}
	if field == "" {
		field = "file"
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, name)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return SavedFile{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	// Sniff the content type from the first 512 bytes while writing.
	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		_ = os.Remove(fullPath)
		return SavedFile{}, fmt.Errorf("read upload: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			_ = os.Remove(fullPath)
			return SavedFile{}, fmt.Errorf("write upload: %w", err)
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(fullPath)
		return SavedFile{}, fmt.Errorf("write upload: %w", err)
	}
	size += written

	return SavedFile{
		Path:     fullPath,
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// Open opens a stored file for reading.
func (s *DiskStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Remove deletes a stored file. A missing file reports fs.ErrNotExist.
func (s *DiskStore) Remove(ctx context.Context, path string) error {
	full, err := s.resolve(ctx, path)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// Exists reports whether a stored file is present.
func (s *DiskStore) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.resolve(ctx, path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve validates that path points inside the base directory.
func (s *DiskStore) resolve(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(path)
	if !strings.HasPrefix(clean, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return clean, nil
}

var _ Store = (*DiskStore)(nil)
