// Package assets manages venue images copied into the configured assets
// directory.
package assets

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"venuebook/internal/textutil"
)

// ErrUnsupportedType reports a source file whose extension is not an image.
var ErrUnsupportedType = errors.New("unsupported image type")

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

const maxNameAttempts = 100

// Library stores venue images under one directory.
type Library struct {
	dir string
}

// New returns a Library rooted at dir.
func New(dir string) *Library {
	return &Library{dir: filepath.Clean(dir)}
}

// Dir returns the library root.
func (l *Library) Dir() string {
	return l.dir
}

// Import copies source into the library as <slug>.<ext> and returns the stored
// path. A numeric suffix is added when another venue already uses the name.
func (l *Library) Import(venueName, source string) (string, error) {
	ext := strings.ToLower(filepath.Ext(source))
	if _, ok := imageExtensions[ext]; !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(source), ErrUnsupportedType)
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("image %q is not a regular file", source)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets directory: %w", err)
	}

	base := textutil.Slug(venueName)
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := base
		if attempt > 1 {
			name += "_" + strconv.Itoa(attempt)
		}
		target := filepath.Join(l.dir, name+ext)
		out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image: %w", err)
		}
		if err := copyVerified(source, out, info.Size()); err != nil {
			_ = os.Remove(target)
			return "", fmt.Errorf("copy image: %w", err)
		}
		return target, nil
	}
	return "", fmt.Errorf("no free image name for %q after %d attempts", base, maxNameAttempts)
}

// Remove deletes an image previously stored by Import. Paths outside the
// library and missing files are ignored; the result reports whether a file
// was deleted.
func (l *Library) Remove(path string) (bool, error) {
	if strings.TrimSpace(path) == "" || !l.Contains(path) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove image: %w", err)
	}
	return true, nil
}

// Contains reports whether path lies inside the library directory.
func (l *Library) Contains(path string) bool {
	rel, err := filepath.Rel(l.dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// copyVerified streams src into out and checks size and SHA256 afterwards.
// out is always closed.
func copyVerified(src string, out *os.File, wantSize int64) error {
	defer func() {
		_ = out.Close()
	}()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if written != wantSize {
		return fmt.Errorf("size mismatch: source %d bytes, copied %d bytes", wantSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return errors.New("hash mismatch: file corrupted during copy")
	}
	return nil
}
