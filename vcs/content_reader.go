package vcs

import (
	"errors"
	"io/fs"
	"os"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, git, etc.)
type ContentReader func(filePath string) ([]byte, error)

// ErrNotFound is wrapped by readers when the path does not name a readable file.
var ErrNotFound = errors.New("file not found")

// FilesystemContentReader reads files from the local filesystem.
func FilesystemContentReader() ContentReader {
	return func(filePath string) ([]byte, error) {
		info, err := os.Stat(filePath)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			return nil, &NotFoundError{Path: filePath}
		}
		if err != nil {
			return nil, err
		}
		return os.ReadFile(filePath)
	}
}

// MapContentReader serves files from memory. Useful in tests.
func MapContentReader(files map[string]string) ContentReader {
	return func(filePath string) ([]byte, error) {
		content, ok := files[filePath]
		if !ok {
			return nil, &NotFoundError{Path: filePath}
		}
		return []byte(content), nil
	}
}

// NotFoundError reports a path the reader has no file for.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "file not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
