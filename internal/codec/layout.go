package codec

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	Heading   = "## 🔐 Passmatic: Vibe Check Required"
	tagline   = "**The only vibe that passes is an informed one.**"
	separator = "\n\n---\n\n"
	closing   = "Take your time to explain the technical details of your changes."
)

// questionPattern matches the text after a question label up to the
// separator that precedes the next heading in the same comment.
func questionPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)### ` + regexp.QuoteMeta(label) + `[ \t]*\n(.*?)\n+-{3,}[ \t]*\n+### (?:Question(?: \d+)?:|How to respond:)`)
}

func writeIntro(b *strings.Builder, ask string) {
	b.WriteString(Heading)
	b.WriteString("\n\n")
	b.WriteString(tagline)
	b.WriteString("\n\n")
	fmt.Fprintf(b, "Before this PR can be merged, please answer %s to demonstrate your understanding of your changes:", ask)
	b.WriteString(separator)
}

func writeQuestion(b *strings.Builder, label string, question string) {
	fmt.Fprintf(b, "### %s\n%s", label, closeFences(strings.TrimSpace(question)))
	b.WriteString(separator)
}

// closeFences terminates a code fence the text leaves open, so the
// sections after it still render as markdown.
func closeFences(text string) string {
	open := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, fence := range []string{"```", "~~~"} {
			if !strings.HasPrefix(line, fence) {
				continue
			}
			switch {
			case open == "":
				open = fence
			case open == fence && strings.Trim(line, fence[:1]) == "":
				open = ""
			}
		}
	}
	if open == "" {
		return text
	}
	return text + "\n" + open
}

// normalizeNewlines folds CRLF line endings, which GitHub stores once a
// comment has been edited in the web UI.
func normalizeNewlines(body string) string {
	return strings.ReplaceAll(body, "\r\n", "\n")
}

func writeHowTo(b *strings.Builder, example string) {
	b.WriteString("### How to respond:\nReply to this comment with:\n```\n")
	b.WriteString(example)
	b.WriteString("\n```\n\n")
	b.WriteString(closing)
}

func writeAnnotation(b *strings.Builder, key string, answer string) {
	fmt.Fprintf(b, "\n<!-- %s:%s -->", key, escapePayload(strings.TrimSpace(answer)))
}

func lastSubmatch(re *regexp.Regexp, body string) (string, bool) {
	matches := re.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}
