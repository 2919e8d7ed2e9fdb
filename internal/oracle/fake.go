package oracle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FixtureBackend replies with <Dir>/<schema name>.json for every call.
type FixtureBackend struct {
	Dir string
}

func NewFixtureBackend(dir string) *FixtureBackend {
	return &FixtureBackend{Dir: dir}
}

func (f *FixtureBackend) Complete(ctx context.Context, req Request) ([]byte, error) {
	_ = ctx
	data, err := os.ReadFile(filepath.Join(f.Dir, req.SchemaName+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle fixture: %w", err)
	}
	return data, nil
}
