package open

import (
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
)

// NewSafeFile creates a new empty file which is accessible only by the current user.
//
// If the file already exists, it is truncated and its permission is tightened.
func NewSafeFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
		return nil, err
	}

	// On windows, mode bits in OpenFile are not applied. go-acl sets ACL there.
	if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteFile replaces the content of the file at path, keeping it private.
//
// The content is written to a sibling temporary file first, then renamed.
// Readers never see a half written file.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.FileMode(0700)); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := NewSafeFile(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
