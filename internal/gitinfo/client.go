package gitinfo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Source answers the two source-control questions the pipeline asks.
type Source interface {
	CurrentBranch(ctx context.Context) (string, error)
	CurrentCommit(ctx context.Context) (string, error)
}

// Client reads branch and commit information from the local git checkout.
type Client struct {
	// Dir is the working directory for git invocations. Empty means the
	// process working directory.
	Dir string
}

// NewClient creates a new git info client.
func NewClient(dir string) *Client {
	return &Client{Dir: dir}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// CurrentCommit returns the full commit hash of HEAD.
func (c *Client) CurrentCommit(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "HEAD")
}

var _ Source = (*Client)(nil)
