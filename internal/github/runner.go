package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type Runner interface {
	Run(ctx context.Context, args []string, stdin []byte) ([]byte, error)
}

// RealRunner shells out to the gh CLI. Binary defaults to "gh".
type RealRunner struct {
	Binary string
}

func (r RealRunner) binary() string {
	if r.Binary == "" {
		return "gh"
	}
	return r.Binary
}

func (r RealRunner) Run(ctx context.Context, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	if len(stdin) > 0 {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s %s timed out: %w", r.binary(), strings.Join(args, " "), ctx.Err())
		}
		return nil, fmt.Errorf("%s %v failed: %w\n%s", r.binary(), args, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}
