// Package codec embeds issued questions and their answer keys in a single
// PR comment and recovers them later from the raw comment text.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

type Item struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type IssuedSet []Item

var (
	ErrNotFound   = errors.New("no passmatic question comment found")
	ErrIncomplete = errors.New("passmatic question comment is incomplete")
	ErrArity      = errors.New("issued set does not match format arity")
)

// IncompleteError reports a located issuer comment from which fewer than
// the expected number of items could be recovered.
type IncompleteError struct {
	Version   string
	Expected  int
	Recovered int
	Missing   []int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("passmatic %s comment is incomplete: recovered %d of %d items (missing %v)", e.Version, e.Recovered, e.Expected, e.Missing)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// Format is one versioned layout of the issuer comment.
type Format interface {
	Version() string
	Arity() int
	// Marker is the substring that identifies an issuer comment of this format.
	Marker() string
	Encode(set IssuedSet) (string, error)
	Decode(body string) (IssuedSet, error)
}

func Lookup(version string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case "v1", "1":
		return SingleFormat{}, nil
	case "v3", "3", "":
		return TripleFormat{}, nil
	default:
		return nil, fmt.Errorf("unknown comment format %q (want v1 or v3)", version)
	}
}

// Find decodes the first body containing the format marker. Later
// matches are ignored even when the first one fails to decode.
func Find(f Format, bodies []string) (IssuedSet, error) {
	for _, body := range bodies {
		if strings.Contains(body, f.Marker()) {
			return f.Decode(body)
		}
	}
	return nil, ErrNotFound
}

func checkArity(f Format, set IssuedSet) error {
	if len(set) != f.Arity() {
		return fmt.Errorf("%w: %s expects %d items, got %d", ErrArity, f.Version(), f.Arity(), len(set))
	}
	for i, item := range set {
		if item.Index != i+1 {
			return fmt.Errorf("%w: item %d has index %d", ErrArity, i+1, item.Index)
		}
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return fmt.Errorf("item %d has an empty question or answer", item.Index)
		}
	}
	return nil
}

// Hidden payloads live inside HTML comments, so the terminator must not
// appear verbatim. Ampersands are escaped as well so the mapping stays
// reversible.
var (
	payloadEscaper   = strings.NewReplacer("&", "&amp;", "-->", "--&gt;", "--!>", "--!&gt;")
	payloadUnescaper = strings.NewReplacer("--&gt;", "-->", "--!&gt;", "--!>", "&amp;", "&")
)

func escapePayload(s string) string {
	return payloadEscaper.Replace(s)
}

func unescapePayload(s string) string {
	return payloadUnescaper.Replace(s)
}
