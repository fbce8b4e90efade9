// Package filex holds the small filesystem helpers behind file-backed records.
package filex

import (
	"errors"
	"io/fs"
	"os"
)

// WriteText creates or truncates path and writes content verbatim.
// Parent directories are not created; a missing one surfaces as *fs.PathError.
func WriteText(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// RemoveRegular deletes path if it is a regular file. A missing path,
// a directory or any other non-regular entry is left alone.
// It reports whether a file was removed.
func RemoveRegular(path string) (bool, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !fi.Mode().IsRegular() {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}
