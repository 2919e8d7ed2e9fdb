package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNumbered(t *testing.T) {
	body := "!answer\n1. The tenant ID\nkeeps keys apart.\n\n2. It returns nil\n   3.  Wrapped last error"
	reply, err := ParseNumbered(body, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[int]string{
		1: "The tenant ID\nkeeps keys apart.",
		2: "It returns nil",
		3: "Wrapped last error",
	}
	if diff := cmp.Diff(want, reply.Answers); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(reply.Duplicates) != 0 {
		t.Fatalf("unexpected duplicates: %v", reply.Duplicates)
	}
}

func TestParseNumberedInlineFirstEntry(t *testing.T) {
	reply, err := ParseNumbered("  !answer 1. foo\r\n2. bar\r\n3. baz  ", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[int]string{1: "foo", 2: "bar", 3: "baz"}
	if diff := cmp.Diff(want, reply.Answers); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNumberedRoundTrip(t *testing.T) {
	first, err := ParseNumbered("!answer\npreamble is ignored\n1. alpha\nmore alpha\n2. beta\n3. gamma", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseNumbered(Trigger+"\n"+first.String(), 3)
	if err != nil {
		t.Fatalf("unexpected error on re-parse: %v", err)
	}
	if diff := cmp.Diff(first.Answers, second.Answers); diff != "" {
		t.Fatalf("re-parse mismatch (-first +second):\n%s", diff)
	}
}

func TestParseNumberedDuplicateKeepsLast(t *testing.T) {
	reply, err := ParseNumbered("!answer\n1. first try\n2. bar\n1. second try\n3. baz", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Answers[1] != "second try" {
		t.Fatalf("expected last occurrence to win, got %q", reply.Answers[1])
	}
	if diff := cmp.Diff([]int{1}, reply.Duplicates); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNumberedDuplicateStillNeedsAllIndices(t *testing.T) {
	_, err := ParseNumbered("!answer\n1. a\n1. b\n2. c", 3)
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Expected != 3 || mismatch.Got != 2 {
		t.Fatalf("unexpected counts: %+v", mismatch)
	}
}

func TestParseNumberedMissingIndex(t *testing.T) {
	_, err := ParseNumbered("!answer\n1. foo\n3. baz", 3)
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Expected != 3 || mismatch.Got != 2 {
		t.Fatalf("unexpected counts: %+v", mismatch)
	}
	if mismatch.Error() != "expected 3 numbered answers, found 2" {
		t.Fatalf("unexpected message: %s", mismatch.Error())
	}
}

func TestParseNumberedOutOfRangeIsText(t *testing.T) {
	reply, err := ParseNumbered("!answer\n1. steps:\n4. not an entry\n2. b\n3. c", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Answers[1] != "steps:\n4. not an entry" {
		t.Fatalf("unexpected entry 1: %q", reply.Answers[1])
	}
}

func TestParseNumberedEmptyEntryCountsAsMissing(t *testing.T) {
	_, err := ParseNumbered("!answer\n1. a\n2.\n3. c", 3)
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) || mismatch.Got != 2 {
		t.Fatalf("expected count mismatch with 2 answers, got %v", err)
	}
}

func TestParseTriggerOnly(t *testing.T) {
	if _, err := ParseSingle("!answer"); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if _, err := ParseNumbered("!answer   \n ", 3); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
}

func TestParseNotTriggered(t *testing.T) {
	if _, err := ParseSingle("looks good to me"); !errors.Is(err, ErrNotTriggered) {
		t.Fatalf("expected ErrNotTriggered, got %v", err)
	}
	if IsTriggered("thanks! !answer later") {
		t.Fatalf("trigger must lead the comment")
	}
	if !IsTriggered("\n  !answer yes") {
		t.Fatalf("leading whitespace should be ignored")
	}
}

func TestParseSingle(t *testing.T) {
	reply, err := ParseReply(SingleFormat{}, "!answer  The lock guards `state`.\nAlso the map.  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Answers[1] != "The lock guards `state`.\nAlso the map." {
		t.Fatalf("unexpected answer: %q", reply.Answers[1])
	}
}
