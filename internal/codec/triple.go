package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const tripleKeyPrefix = "PASSMATIC_ANSWER_"

var tripleAnswerRe = regexp.MustCompile(`(?s)<!--\s*` + tripleKeyPrefix + `(\d+):(.*?)\s*-->`)

var tripleQuestionRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 3)
	for i := range res {
		res[i] = questionPattern(fmt.Sprintf("Question %d:", i+1))
	}
	return res
}()

// TripleFormat is the canonical three-question layout. Each answer key is
// tagged with the index of its question.
type TripleFormat struct{}

func (TripleFormat) Version() string { return "v3" }

func (TripleFormat) Arity() int { return 3 }

func (TripleFormat) Marker() string { return tripleKeyPrefix }

func (f TripleFormat) Encode(set IssuedSet) (string, error) {
	if err := checkArity(f, set); err != nil {
		return "", err
	}
	var b strings.Builder
	writeIntro(&b, "the following 3 questions")
	for _, item := range set {
		writeQuestion(&b, fmt.Sprintf("Question %d:", item.Index), item.Question)
	}
	writeHowTo(&b, Trigger+"\n1. <your answer to question 1>\n2. <your answer to question 2>\n3. <your answer to question 3>")
	for _, item := range set {
		writeAnnotation(&b, tripleKeyPrefix+strconv.Itoa(item.Index), item.Answer)
	}
	return b.String(), nil
}

func (f TripleFormat) Decode(body string) (IssuedSet, error) {
	body = normalizeNewlines(body)
	answers := map[int]string{}
	for _, m := range tripleAnswerRe.FindAllStringSubmatch(body, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		answers[idx] = strings.TrimSpace(unescapePayload(m[2]))
	}

	set := make(IssuedSet, 0, f.Arity())
	var missing []int
	for i := 1; i <= f.Arity(); i++ {
		question, ok := lastSubmatch(tripleQuestionRes[i-1], body)
		question = strings.TrimSpace(question)
		answer := answers[i]
		if !ok || question == "" || answer == "" {
			missing = append(missing, i)
			continue
		}
		set = append(set, Item{Index: i, Question: question, Answer: answer})
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Version: f.Version(), Expected: f.Arity(), Recovered: len(set), Missing: missing}
	}
	return set, nil
}
