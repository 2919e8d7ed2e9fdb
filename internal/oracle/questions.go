package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/passmatic/passmatic/internal/codec"
	"github.com/passmatic/passmatic/internal/prompt"
)

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuestionsResponse struct {
	Questions []QA `json:"questions"`
}

// Set numbers the questions from 1 in response order.
func (r QuestionsResponse) Set() codec.IssuedSet {
	set := make(codec.IssuedSet, 0, len(r.Questions))
	for i, qa := range r.Questions {
		set = append(set, codec.Item{Index: i + 1, Question: qa.Question, Answer: qa.Answer})
	}
	return set
}

// AskQuestions requests exactly n question/answer pairs about diff in a
// single call. One question uses the flat {question, answer} shape.
func (c *Client) AskQuestions(ctx context.Context, diff string, n int) (QuestionsResponse, error) {
	if n < 1 {
		return QuestionsResponse{}, fmt.Errorf("question count must be positive, got %d", n)
	}
	req := Request{
		System:      c.opts.Prompts.QuestionsSystem,
		User:        prompt.RenderQuestions(c.opts.Prompts.Questions, diff, n),
		Temperature: c.opts.QuestionTemperature,
		SchemaName:  callQuestions,
		Schema:      questionsSchema(n),
	}
	if n == 1 {
		req.SchemaName = callQuestion
		req.Schema = singleQuestionSchema
	}

	raw, err := c.complete(ctx, req)
	if err != nil {
		return QuestionsResponse{}, err
	}
	if err := validate(req.SchemaName, req.Schema, raw); err != nil {
		return QuestionsResponse{}, err
	}

	var resp QuestionsResponse
	if n == 1 {
		var qa QA
		if err := json.Unmarshal(raw, &qa); err != nil {
			return QuestionsResponse{}, &FormatError{CallSite: req.SchemaName, Raw: string(raw), Err: err}
		}
		resp.Questions = []QA{qa}
	} else if err := json.Unmarshal(raw, &resp); err != nil {
		return QuestionsResponse{}, &FormatError{CallSite: req.SchemaName, Raw: string(raw), Err: err}
	}

	if len(resp.Questions) != n {
		return QuestionsResponse{}, &FormatError{CallSite: req.SchemaName, Raw: string(raw), Err: fmt.Errorf("expected %d questions, got %d", n, len(resp.Questions))}
	}
	for i, qa := range resp.Questions {
		if blank(qa.Question) || blank(qa.Answer) {
			return QuestionsResponse{}, &FormatError{CallSite: req.SchemaName, Raw: string(raw), Err: fmt.Errorf("item %d has an empty question or answer", i+1)}
		}
	}
	return resp, nil
}
