// Package redact scrubs credentials out of text before it is sent to the
// oracle.
package redact

import (
	"math"
	"regexp"
)

const Redacted = "[REDACTED_SECRET]"

type rule struct {
	name string
	re   *regexp.Regexp
	// repl is the replacement template; empty means Redacted.
	repl string
	// minEntropy > 0 only replaces matches at or above that Shannon entropy.
	minEntropy float64
}

var rules = []rule{
	{name: "private_key", re: regexp.MustCompile(`-----BEGIN (RSA|EC|DSA|OPENSSH) PRIVATE KEY-----[\s\S]+?-----END (RSA|EC|DSA|OPENSSH) PRIVATE KEY-----`)},
	{name: "aws_access_key", re: regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{name: "aws_secret_key", re: regexp.MustCompile(`(?i)aws(.{0,20})?(secret|access)["'\s:=]+[A-Za-z0-9/+=]{32,}`)},
	{name: "github_token", re: regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{30,}`)},
	{name: "openai_key", re: regexp.MustCompile(`sk-(?:proj-|ant-)?[A-Za-z0-9_\-]{20,}`)},
	{name: "jwt", re: regexp.MustCompile(`eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+`)},
	{name: "generic_token", re: regexp.MustCompile(`(?i)(token|secret|api[_-]?key|access[_-]?key)["'\s:=]+[A-Za-z0-9/+=]{16,}`)},
	{name: "url_param", re: regexp.MustCompile(`([?&](token|key|secret|sig|signature|access_token|auth)=)[^&\s]+`), repl: "${1}" + Redacted},
	{name: "base64_blob", re: regexp.MustCompile(`[A-Za-z0-9+/=]{32,}`), minEntropy: 4.0},
	{name: "hex_blob", re: regexp.MustCompile(`[A-Fa-f0-9]{32,}`), minEntropy: 4.0},
}

// Scan redacts input and reports how many matches each rule replaced.
func Scan(input string) (string, map[string]int) {
	hits := map[string]int{}
	if input == "" {
		return input, hits
	}
	output := input
	for _, r := range rules {
		output = r.apply(output, hits)
	}
	return output, hits
}

func (r rule) apply(input string, hits map[string]int) string {
	return r.re.ReplaceAllStringFunc(input, func(match string) string {
		if r.minEntropy > 0 && entropy(match) < r.minEntropy {
			return match
		}
		hits[r.name]++
		if r.repl == "" {
			return Redacted
		}
		return r.re.ReplaceAllString(match, r.repl)
	})
}

func Redact(input string) string {
	output, _ := Scan(input)
	return output
}

func entropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
	}
	length := float64(len([]rune(s)))
	var ent float64
	for _, count := range counts {
		p := float64(count) / length
		ent -= p * math.Log2(p)
	}
	return ent
}
