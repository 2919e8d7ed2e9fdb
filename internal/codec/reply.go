package codec

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Trigger marks a comment as an answer submission.
const Trigger = "!answer"

var (
	ErrNotTriggered = errors.New("comment does not start with " + Trigger)
	ErrEmptyAnswer  = errors.New("answer cannot be empty")
)

type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d numbered answers, found %d", e.Expected, e.Got)
}

// Reply is a parsed answer submission keyed by question index.
type Reply struct {
	Answers map[int]string
	// Duplicates lists indices that appeared more than once. The last
	// occurrence of each is kept.
	Duplicates []int
}

// String renders the reply as "i. text" lines in index order.
func (r Reply) String() string {
	indices := make([]int, 0, len(r.Answers))
	for idx := range r.Answers {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	lines := make([]string, 0, len(indices))
	for _, idx := range indices {
		lines = append(lines, fmt.Sprintf("%d. %s", idx, r.Answers[idx]))
	}
	return strings.Join(lines, "\n")
}

var entryRe = regexp.MustCompile(`^\s*(\d+)\.\s*(.*)$`)

func IsTriggered(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), Trigger)
}

func stripTrigger(body string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if !strings.HasPrefix(trimmed, Trigger) {
		return "", ErrNotTriggered
	}
	return strings.TrimPrefix(trimmed, Trigger), nil
}

// ParseReply parses body according to the arity of f.
func ParseReply(f Format, body string) (Reply, error) {
	if f.Arity() == 1 {
		return ParseSingle(body)
	}
	return ParseNumbered(body, f.Arity())
}

// ParseSingle treats everything after the trigger as one answer.
func ParseSingle(body string) (Reply, error) {
	rest, err := stripTrigger(body)
	if err != nil {
		return Reply{}, err
	}
	answer := strings.TrimSpace(rest)
	if answer == "" {
		return Reply{}, ErrEmptyAnswer
	}
	return Reply{Answers: map[int]string{1: answer}}, nil
}

// ParseNumbered splits the reply into entries opened by "N." lines. Lines
// numbered outside [1..n] are kept as text of the open entry. Entries
// that are empty after trimming are dropped before counting.
func ParseNumbered(body string, n int) (Reply, error) {
	rest, err := stripTrigger(body)
	if err != nil {
		return Reply{}, err
	}
	if strings.TrimSpace(rest) == "" {
		return Reply{}, ErrEmptyAnswer
	}

	reply := Reply{Answers: map[int]string{}}
	seen := map[int]bool{}
	current := 0
	var buf []string
	flush := func() {
		if current == 0 {
			return
		}
		if seen[current] {
			reply.Duplicates = append(reply.Duplicates, current)
		}
		seen[current] = true
		reply.Answers[current] = strings.TrimSpace(strings.Join(buf, "\n"))
	}

	for _, line := range strings.Split(rest, "\n") {
		if m := entryRe.FindStringSubmatch(line); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil && idx >= 1 && idx <= n {
				flush()
				current = idx
				buf = []string{m[2]}
				continue
			}
		}
		if current != 0 {
			buf = append(buf, line)
		}
	}
	flush()

	for idx, text := range reply.Answers {
		if text == "" {
			delete(reply.Answers, idx)
		}
	}
	if len(reply.Answers) != n {
		return Reply{}, &CountMismatchError{Expected: n, Got: len(reply.Answers)}
	}
	return reply, nil
}
