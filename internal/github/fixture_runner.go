package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FixtureRunner answers read calls from files under Root. Write calls
// succeed and are appended to LogPath when it is set.
type FixtureRunner struct {
	Root    string
	LogPath string
}

func NewFixtureRunner(root string) FixtureRunner {
	return FixtureRunner{Root: root}
}

func (f FixtureRunner) Run(ctx context.Context, args []string, stdin []byte) ([]byte, error) {
	_ = ctx
	key := strings.Join(args, " ")
	var file string
	switch {
	case strings.Contains(key, "pr diff"):
		file = "pr_diff.txt"
	case strings.Contains(key, "/comments?"):
		file = "issue_comments.json"
	case strings.Contains(key, "auth status"):
		return []byte("logged in"), nil
	case strings.Contains(key, "pr comment"), strings.Contains(key, "pr review"), strings.Contains(key, "/reactions"):
		return nil, f.record(key, stdin)
	default:
		return nil, fmt.Errorf("no fixture for gh args: %s", key)
	}
	return os.ReadFile(filepath.Join(f.Root, file))
}

func (f FixtureRunner) record(key string, stdin []byte) error {
	if f.LogPath == "" {
		return nil
	}
	fh, err := os.OpenFile(f.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to record gh call: %w", err)
	}
	defer fh.Close()
	_, err = fmt.Fprintf(fh, "%s\n%s\n", key, stdin)
	return err
}
