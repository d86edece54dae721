// Package fsys is the filesystem surface used by the installer and launcher.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS abstracts file system operations for testability.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	// WriteFileAtomic writes data to a temp file next to name and renames
	// it into place, so readers never observe a partial file.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error
	// WriteTemp writes data to a new uniquely named file in dir (os.TempDir
	// when empty) and returns its path.
	WriteTemp(dir, pattern string, data []byte) (string, error)
	// Writable reports whether the current user can create files in dir.
	Writable(dir string) bool
}

// OS implements FS using the real file system.
type OS struct{}

// Stat returns file info for the given path.
func (OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file.
func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory and any missing parents.
func (OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the named file.
func (OS) Remove(name string) error {
	return os.Remove(name)
}

// WriteFileAtomic writes data to name via a temp file and rename.
func (OS) WriteFileAtomic(name string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := replaceFile(tmpName, name); err != nil {
		return err
	}
	committed = true
	return nil
}

// WriteTemp writes data to a fresh temp file and returns its path.
func (OS) WriteTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// Writable reports whether dir is an existing directory the current user
// can create files in.
func (OS) Writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	return canWrite(dir)
}

// IsFile reports whether name exists and is a regular file.
func IsFile(fsys FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// Describe adds a human-readable hint for common filesystem errors.
func Describe(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("permission denied: %v", err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("not found: %v", err)
	default:
		return err.Error()
	}
}
