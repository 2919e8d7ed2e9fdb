package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	questionsSystem = "You are a strict code reviewer focused on technical understanding."
	gradeSystem     = "You are a fair but strict technical reviewer."
)

const questionsTemplate = `You are a senior code reviewer. Analyze this git diff and generate {COUNT_WORDS} that {VERB} the author's understanding of their changes.

Requirements:
- Each question must be specific to the code changes
- Only someone who wrote/understands the changes should know the answer
- Focus on logic, implementation details, or design decisions
- Do NOT ask about formatting, style, or trivial changes
- Each answer is 2-3 sentences explaining the key point

Diff:
{DIFF}

Respond with JSON in this exact format:
{FORMAT}`

const gradeTemplate = `You are a strict technical reviewer. Evaluate if the user's answer demonstrates correct understanding of the code changes.

Question: {QUESTION}

Expected Answer (reference): {REFERENCE}

User's Answer: {ANSWER}

Evaluate based on:
1. Technical accuracy of the explanation
2. Understanding of the core concepts
3. Relevance to the question asked

Respond with JSON in this exact format:
{
    "passed": true/false,
    "feedback": "Brief feedback message (1-2 sentences)"
}`

const singleFormat = `{
    "question": "Your technical question here",
    "answer": "The correct answer (2-3 sentences explaining the key point)"
}`

// Set holds the system instructions and user templates for both oracle
// call sites.
type Set struct {
	QuestionsSystem string
	Questions       string
	GradeSystem     string
	Grade           string
}

func Defaults() Set {
	return Set{
		QuestionsSystem: questionsSystem,
		Questions:       questionsTemplate,
		GradeSystem:     gradeSystem,
		Grade:           gradeTemplate,
	}
}

// Load starts from the defaults and replaces the user templates with
// questions.txt and grade.txt from dir when those files exist.
func Load(dir string) (Set, error) {
	set := Defaults()
	if dir == "" {
		return set, nil
	}
	for name, dst := range map[string]*string{
		"questions.txt": &set.Questions,
		"grade.txt":     &set.Grade,
	} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Set{}, fmt.Errorf("failed to read prompt template: %w", err)
		}
		*dst = string(content)
	}
	return set, nil
}

func RenderQuestions(template string, diff string, count int) string {
	out := template
	out = strings.ReplaceAll(out, "{COUNT_WORDS}", countWords(count))
	out = strings.ReplaceAll(out, "{COUNT}", strconv.Itoa(count))
	out = strings.ReplaceAll(out, "{VERB}", verb(count))
	out = strings.ReplaceAll(out, "{FORMAT}", questionsFormat(count))
	// The diff goes last so placeholder-looking text inside it survives.
	out = strings.ReplaceAll(out, "{DIFF}", diff)
	return out
}

func RenderGrade(template string, question, reference, answer string) string {
	return strings.NewReplacer(
		"{QUESTION}", question,
		"{REFERENCE}", reference,
		"{ANSWER}", answer,
	).Replace(template)
}

func countWords(count int) string {
	if count == 1 {
		return "ONE technical question"
	}
	return fmt.Sprintf("EXACTLY %d distinct technical questions", count)
}

func verb(count int) string {
	if count == 1 {
		return "tests"
	}
	return "test"
}

func questionsFormat(count int) string {
	if count == 1 {
		return singleFormat
	}
	var b strings.Builder
	b.WriteString("{\n    \"questions\": [\n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "        {\"question\": \"Question %d\", \"answer\": \"Answer %d\"}", i, i)
		if i < count {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ]\n}")
	return b.String()
}
