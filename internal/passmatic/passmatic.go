// Package passmatic runs the two pipelines of the bot: issuing questions
// about a pull request and grading the contributor's answers.
package passmatic

import (
	"context"
	"errors"

	"github.com/passmatic/passmatic/internal/github"
	"github.com/passmatic/passmatic/internal/oracle"
)

// ErrGradingFailed ends a run in which the answers were graded and at
// least one did not pass. The verdict has already been posted.
var ErrGradingFailed = errors.New("vibe check failed")

// Host is the subset of the hosting platform both pipelines use.
type Host interface {
	PRDiff(ctx context.Context, pr string) (string, error)
	ListIssueComments(ctx context.Context, pr string) ([]github.IssueComment, error)
	PostComment(ctx context.Context, pr string, body string) error
	Approve(ctx context.Context, pr string, body string) error
	AddReaction(ctx context.Context, pr string, commentID string, content string) error
}

type Oracle interface {
	AskQuestions(ctx context.Context, diff string, n int) (oracle.QuestionsResponse, error)
	Grade(ctx context.Context, req oracle.GradeRequest) (oracle.GradeResponse, error)
}
