// Package uploads stores trade screenshots on disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrInvalidName     = errors.New("invalid file name")
)

// AllowedExtensions are the accepted image suffixes, lower case.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store saves uploads under a single flat directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New creates dir if needed.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Allowed reports whether name has an accepted image extension.
func Allowed(name string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// SanitizeName reduces a client-supplied file name to a safe base name:
// ASCII letters, digits, '.', '-' and '_' only, whitespace folded to '_',
// no leading dots or underscores.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

// Save writes r to a new file named "<uuid>_<sanitized name>" and returns
// that name. Nothing is left on disk when it fails.
func (s *Store) Save(original string, r io.Reader) (string, error) {
	if !Allowed(original) {
		return "", ErrUnsupportedType
	}
	clean := SanitizeName(original)
	if clean == "" || !Allowed(clean) {
		return "", ErrInvalidName
	}
	name := uuid.NewString() + "_" + clean

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return name, nil
}

// Path resolves a stored name to its file path. Names with directory
// parts are rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error.
func (s *Store) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
