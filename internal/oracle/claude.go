package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// cliEnvelope is the object `claude -p --output-format json` prints. With
// --json-schema the payload is in structured_output; older CLIs only fill
// result.
type cliEnvelope struct {
	IsError          bool            `json:"is_error"`
	Result           string          `json:"result"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

func unwrapEnvelope(raw []byte) ([]byte, error) {
	var env cliEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unreadable claude output: %w", err)
	}
	switch {
	case env.IsError:
		return nil, fmt.Errorf("claude reported an error: %s", env.Result)
	case len(env.StructuredOutput) > 0 && string(env.StructuredOutput) != "null":
		return env.StructuredOutput, nil
	case env.Result != "":
		return []byte(env.Result), nil
	}
	return nil, errors.New("claude output has neither structured_output nor result")
}

// ClaudeCLIBackend runs the local Claude CLI in print mode.
type ClaudeCLIBackend struct {
	command string
	args    []string
}

func NewClaudeCLIBackend(command string, args []string) *ClaudeCLIBackend {
	if command == "" {
		command = "claude"
	}
	return &ClaudeCLIBackend{command: command, args: args}
}

func (c *ClaudeCLIBackend) Complete(ctx context.Context, req Request) ([]byte, error) {
	schema := []byte(req.Schema)
	var compact bytes.Buffer
	if err := json.Compact(&compact, schema); err == nil {
		schema = compact.Bytes()
	}

	args := append([]string{}, c.args...)
	args = append(args, "-p", "--output-format", "json", "--json-schema", string(schema))
	if req.System != "" {
		args = append(args, "--append-system-prompt", req.System)
	}
	args = append(args, req.User)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out: %w", c.command, ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w\n%s", c.command, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s returned empty output\n%s", c.command, stderr.String())
	}
	return unwrapEnvelope(stdout.Bytes())
}
