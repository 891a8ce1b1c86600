// Package storage persists uploaded media on an afero filesystem.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

var (
	ErrNoFilename   = errors.New("no file name")
	ErrInvalidType  = errors.New("file type not allowed")
	ErrTooLarge     = errors.New("file too large")
	ErrInvalidName  = errors.New("invalid file name")
	ErrFileNotFound = errors.New("file not found")
)

// Kind describes one family of uploads: where they live and what is accepted.
type Kind struct {
	Dir        string
	Extensions []string
	MaxBytes   int64
}

var (
	PostMedia = Kind{
		Dir:        "post_media",
		Extensions: []string{"jpg", "jpeg", "png", "gif", "mp4", "mov", "avi"},
		MaxBytes:   10 << 20,
	}
	ProfileImage = Kind{
		Dir:        "profile_images",
		Extensions: []string{"jpg", "jpeg", "png"},
		MaxBytes:   5 << 20,
	}
)

// MaxMB is the size limit in whole megabytes, for messages.
func (k Kind) MaxMB() int64 {
	return k.MaxBytes >> 20
}

// Allows reports whether filename carries one of the kind's extensions, ignoring case.
func (k Kind) Allows(filename string) bool {
	ext := Extension(filename)
	for _, allowed := range k.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// IsVideo reports whether filename names one of the accepted video formats.
func IsVideo(filename string) bool {
	switch Extension(filename) {
	case "mp4", "mov", "avi":
		return true
	}
	return false
}

// Store writes uploads beneath root.
type Store struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

// New returns a Store on fs rooted at root.
func New(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root, now: time.Now}
}

// NewOS returns a Store on the local disk.
func NewOS(root string) *Store {
	return New(afero.NewOsFs(), root)
}

// Check validates an upload before its content is read.
func (s *Store) Check(kind Kind, filename string, size int64) error {
	if filename == "" {
		return ErrNoFilename
	}
	if !kind.Allows(filename) {
		return ErrInvalidType
	}
	if size > kind.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// Save stores content under a unique name derived from original and returns
// that name. The stored name is "{unix seconds}_{sanitized original}".
func (s *Store) Save(kind Kind, original string, content []byte) (string, error) {
	if err := s.Check(kind, original, int64(len(content))); err != nil {
		return "", err
	}

	name := SecureFilename(original)
	if !kind.Allows(name) {
		// Sanitizing can strip the stem or the dot; keep the validated extension.
		name = "upload." + Extension(original)
	}
	name = fmt.Sprintf("%d_%s", s.now().Unix(), name)

	dir := filepath.Join(s.root, kind.Dir)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, filepath.Join(dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// Read returns the content of a stored file. name must be a bare file name.
func (s *Store) Read(kind Kind, name string) ([]byte, error) {
	if !isBareName(name) {
		return nil, ErrInvalidName
	}
	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, kind.Dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func isBareName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}
