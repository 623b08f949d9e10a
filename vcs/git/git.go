// Package git reads asset sources out of a git commit instead of the working tree.
package git

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/LegacyCodeHQ/bundlegraph/vcs"
)

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot(repoPath string) (string, error) {
	out, err := runGit(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ValidateCommit checks that the commit reference resolves in the repository.
func ValidateCommit(repoPath, commitID string) error {
	if err := validateGitRef(commitID); err != nil {
		return err
	}

	if _, err := runGit(repoPath, "rev-parse", "--verify", commitID+"^{commit}"); err != nil {
		if stderr := stderrOf(err); stderr != "" {
			return fmt.Errorf("invalid commit reference '%s': %s", commitID, stderr)
		}
		return fmt.Errorf("invalid commit reference '%s'", commitID)
	}
	return nil
}

// GitCommitContentReader reads files as they were at commitID. Paths are
// taken relative to repoPath, which may be a subdirectory of the repository.
func GitCommitContentReader(repoPath, commitID string) vcs.ContentReader {
	var (
		once      sync.Once
		prefix    string
		prefixErr error
	)

	return func(filePath string) ([]byte, error) {
		once.Do(func() {
			prefix, prefixErr = showPrefix(repoPath)
		})
		if prefixErr != nil {
			return nil, prefixErr
		}

		rel, err := relativeToRepo(repoPath, filePath)
		if err != nil {
			return nil, err
		}
		return getFileContentFromCommit(repoPath, commitID, filepath.ToSlash(filepath.Join(prefix, rel)))
	}
}

// showPrefix returns the path of repoPath relative to the repository root.
func showPrefix(repoPath string) (string, error) {
	out, err := runGit(repoPath, "rev-parse", "--show-prefix")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func relativeToRepo(repoPath, filePath string) (string, error) {
	if !filepath.IsAbs(filePath) {
		return filepath.Clean(filePath), nil
	}
	base, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", repoPath, err)
	}
	return filepath.Rel(base, filePath)
}

func getFileContentFromCommit(repoPath, commitID, filePath string) ([]byte, error) {
	if err := validateGitRef(commitID); err != nil {
		return nil, err
	}
	if err := validateGitRelPath(filePath); err != nil {
		return nil, err
	}

	object := commitID + ":" + filePath
	objectType, err := runGit(repoPath, "cat-file", "-t", object)
	if err != nil {
		if isMissingPath(stderrOf(err)) {
			return nil, &vcs.NotFoundError{Path: filePath}
		}
		return nil, err
	}
	// Directories are tree objects; only blobs are files.
	if strings.TrimSpace(string(objectType)) != "blob" {
		return nil, &vcs.NotFoundError{Path: filePath}
	}

	return runGit(repoPath, "cat-file", "blob", object)
}

func isMissingPath(stderr string) bool {
	return strings.Contains(stderr, "does not exist") ||
		strings.Contains(stderr, "exists on disk, but not in") ||
		strings.Contains(stderr, "Not a valid object name")
}

func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t ") {
		return fmt.Errorf("git reference contains whitespace or NUL: %q", ref)
	}
	return nil
}

func validateGitRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("git path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("git path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("git path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("git path escapes repository: %q", path)
	}
	return nil
}
