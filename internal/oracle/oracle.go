// Package oracle asks a language model for quiz questions and grades, and
// validates every response against a JSON Schema before it is used.
package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/passmatic/passmatic/internal/prompt"
)

const DefaultTimeout = 60 * time.Second

// Request is one completion call. Schema is the JSON Schema the response
// must satisfy; backends that support structured output pass it through.
type Request struct {
	System      string
	User        string
	Temperature float32
	SchemaName  string
	Schema      string
}

type Backend interface {
	Complete(ctx context.Context, req Request) ([]byte, error)
}

// FormatError reports a response that did not match the expected shape.
type FormatError struct {
	CallSite string
	Raw      string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s response from oracle: %v", e.CallSite, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

type Options struct {
	Timeout             time.Duration
	QuestionTemperature float32
	GradeTemperature    float32
	Prompts             prompt.Set
}

type Client struct {
	backend Backend
	opts    Options
}

func NewClient(backend Backend, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Prompts == (prompt.Set{}) {
		opts.Prompts = prompt.Defaults()
	}
	return &Client{backend: backend, opts: opts}
}

func (c *Client) complete(ctx context.Context, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	raw, err := c.backend.Complete(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("oracle %s call timed out after %s: %w", req.SchemaName, c.opts.Timeout, err)
		}
		return nil, fmt.Errorf("oracle %s call failed: %w", req.SchemaName, err)
	}
	return extractJSON(raw), nil
}

// extractJSON drops markdown fencing and any prose around the outermost
// JSON object.
func extractJSON(raw []byte) []byte {
	text := bytes.TrimSpace(raw)
	if bytes.HasPrefix(text, []byte("```")) {
		if nl := bytes.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
		if idx := bytes.LastIndex(text, []byte("```")); idx >= 0 {
			text = text[:idx]
		}
		text = bytes.TrimSpace(text)
	}
	if len(text) > 0 && text[0] != '{' {
		first := bytes.IndexByte(text, '{')
		last := bytes.LastIndexByte(text, '}')
		if first >= 0 && last > first {
			text = text[first : last+1]
		}
	}
	return text
}
