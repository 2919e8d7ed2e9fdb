package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(repoRoot(), "testdata", "golden", name))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	return string(data)
}

func TestPreviewGolden(t *testing.T) {
	withMockEnv(t)
	diffPath := filepath.Join(repoRoot(), "testdata", "gh", "pr_diff.txt")

	code, stdout, stderr := runCLI(t, "preview", diffPath)
	if code != 0 {
		t.Fatalf("preview failed (%d): %s", code, stderr)
	}
	if diff := cmp.Diff(readGolden(t, "issue_comment_v3.md"), stdout); diff != "" {
		t.Fatalf("preview output mismatch (-want +got):\n%s", diff)
	}
}
