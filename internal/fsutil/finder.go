// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByPrefix recursively searches the given root path for all files
// whose base name starts with the specified prefix. It returns a slice of
// their full paths. Directories are never matched, only regular entries.
func FindFilesByPrefix(rootPath string, prefix string) ([]string, error) {
	if prefix == "" {
		panic("prefix must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), prefix) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
