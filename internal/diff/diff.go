package diff

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MinChars is the smallest diff worth asking questions about.
const MinChars = 50

var ErrTooSmall = errors.New("PR diff is too small or empty")

const truncatedMarker = "\n[... diff truncated ...]\n"

type FileDiff struct {
	Path string
	Text string
}

func ParseUnified(input string) []FileDiff {
	var files []FileDiff
	var current *FileDiff
	var b strings.Builder
	closeCurrent := func() {
		if current != nil {
			current.Text = b.String()
			files = append(files, *current)
			b.Reset()
		}
	}
	for _, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			closeCurrent()
			current = &FileDiff{Path: parsePath(line)}
		}
		if current == nil {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	closeCurrent()
	return files
}

func parsePath(line string) string {
	parts := strings.Split(line, " ")
	if len(parts) < 4 {
		return ""
	}
	return strings.TrimPrefix(parts[3], "b/")
}

type Options struct {
	Ignore   []string
	MaxFiles int
	MaxChars int
}

// Prepared is the diff text that will be shown to the oracle.
type Prepared struct {
	Text      string
	Files     int
	Skipped   []string
	Truncated bool
}

// Prepare drops ignored files and cuts the diff down to the configured
// budget. Zero limits mean no limit. A diff shorter than MinChars
// characters, counted as runes of the raw input, is ErrTooSmall; so is one
// that drops below MinChars once files are skipped.
func Prepare(input string, opts Options) (Prepared, error) {
	if utf8.RuneCountInString(input) < MinChars {
		return Prepared{}, ErrTooSmall
	}
	files := ParseUnified(input)
	if len(files) == 0 {
		files = []FileDiff{{Text: input}}
	}

	var out Prepared
	var b strings.Builder
	for _, file := range files {
		if file.Path != "" && isIgnored(file.Path, opts.Ignore) {
			out.Skipped = append(out.Skipped, file.Path)
			continue
		}
		if opts.MaxFiles > 0 && out.Files >= opts.MaxFiles {
			out.Skipped = append(out.Skipped, file.Path)
			out.Truncated = true
			continue
		}
		text := file.Text
		if opts.MaxChars > 0 && b.Len()+len(text) > opts.MaxChars {
			remaining := opts.MaxChars - b.Len()
			for remaining > 0 && !utf8.RuneStart(text[remaining]) {
				remaining--
			}
			if remaining > 0 {
				b.WriteString(text[:remaining])
				out.Files++
			}
			b.WriteString(truncatedMarker)
			out.Truncated = true
			break
		}
		b.WriteString(text)
		out.Files++
	}

	out.Text = b.String()
	if len(out.Skipped) > 0 && utf8.RuneCountInString(strings.TrimSpace(out.Text)) < MinChars {
		return Prepared{}, fmt.Errorf("%w after ignoring %d file(s)", ErrTooSmall, len(out.Skipped))
	}
	return out, nil
}

func isIgnored(path string, globs []string) bool {
	for _, glob := range globs {
		if match, err := filepath.Match(glob, path); err == nil && match {
			return true
		}
		if match, err := filepath.Match(glob, filepath.Base(path)); err == nil && match {
			return true
		}
	}
	return false
}
