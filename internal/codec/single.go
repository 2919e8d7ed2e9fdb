package codec

import (
	"regexp"
	"strings"
)

const singleKey = "PASSMATIC_ANSWER"

var (
	singleQuestionRe = questionPattern("Question:")
	singleAnswerRe   = regexp.MustCompile(`(?s)<!--\s*` + singleKey + `:(.*?)\s*-->`)
)

// SingleFormat is the legacy one-question layout. Its answer key carries
// no index.
type SingleFormat struct{}

func (SingleFormat) Version() string { return "v1" }

func (SingleFormat) Arity() int { return 1 }

func (SingleFormat) Marker() string { return singleKey + ":" }

func (f SingleFormat) Encode(set IssuedSet) (string, error) {
	if err := checkArity(f, set); err != nil {
		return "", err
	}
	var b strings.Builder
	writeIntro(&b, "the following question")
	writeQuestion(&b, "Question:", set[0].Question)
	writeHowTo(&b, Trigger+" <your answer here>")
	writeAnnotation(&b, singleKey, set[0].Answer)
	return b.String(), nil
}

func (f SingleFormat) Decode(body string) (IssuedSet, error) {
	body = normalizeNewlines(body)
	question, qok := lastSubmatch(singleQuestionRe, body)
	answer, aok := lastSubmatch(singleAnswerRe, body)
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(unescapePayload(answer))
	if !qok || !aok || question == "" || answer == "" {
		return nil, &IncompleteError{Version: f.Version(), Expected: 1, Recovered: 0, Missing: []int{1}}
	}
	return IssuedSet{{Index: 1, Question: question, Answer: answer}}, nil
}
