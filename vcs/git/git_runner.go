package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const gitCommandTimeout = 10 * time.Second

// CommandError is a failed git invocation. Stderr holds git's trimmed
// diagnostic output, if any.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s failed: %s", e.Args[0], e.Stderr)
	}
	return fmt.Sprintf("git %s failed: %v", e.Args[0], e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// runGit runs git in repoPath and returns its stdout.
func runGit(repoPath string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", gitCommandTimeout, ctx.Err())
		}
		return nil, &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}

// stderrOf returns git's diagnostic output for err, or "".
func stderrOf(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Stderr
	}
	return ""
}
