package oracle

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/passmatic/passmatic/internal/prompt"
)

type GradeRequest struct {
	Question  string
	Reference string
	Submitted string
}

type GradeResponse struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}

func (c *Client) Grade(ctx context.Context, in GradeRequest) (GradeResponse, error) {
	req := Request{
		System:      c.opts.Prompts.GradeSystem,
		User:        prompt.RenderGrade(c.opts.Prompts.Grade, in.Question, in.Reference, in.Submitted),
		Temperature: c.opts.GradeTemperature,
		SchemaName:  callGrade,
		Schema:      gradeSchema,
	}
	raw, err := c.complete(ctx, req)
	if err != nil {
		return GradeResponse{}, err
	}
	if err := validate(callGrade, gradeSchema, raw); err != nil {
		return GradeResponse{}, err
	}
	var resp GradeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return GradeResponse{}, &FormatError{CallSite: callGrade, Raw: string(raw), Err: err}
	}
	resp.Feedback = strings.TrimSpace(resp.Feedback)
	return resp, nil
}
