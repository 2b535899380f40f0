package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// WorktreeDiff returns unified diff text for uncommitted changes, read via
// the git CLI because go-git produces no patch output for the index. With
// staged set, only index-vs-HEAD changes are included; otherwise unstaged
// changes are preferred, falling back to staged changes when the worktree
// is clean.
func WorktreeDiff(ctx context.Context, repoPath string, staged bool) (string, error) {
	if staged {
		return runGitDiff(ctx, repoPath, "--cached")
	}

	diff, err := runGitDiff(ctx, repoPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) != "" {
		return diff, nil
	}
	return runGitDiff(ctx, repoPath, "--cached")
}

func runGitDiff(ctx context.Context, repoPath string, extra ...string) (string, error) {
	args := append([]string{"-C", repoPath, "diff", "--no-color"}, extra...)
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git diff failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
