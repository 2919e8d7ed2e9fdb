package passmatic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/passmatic/passmatic/internal/codec"
	"github.com/passmatic/passmatic/internal/oracle"
	"github.com/passmatic/passmatic/internal/output"
)

// Submission is one comment event the grader reacts to.
type Submission struct {
	PR            string
	Body          string
	CommentID     string
	PRAuthor      string
	CommentAuthor string
}

type Result struct {
	Index    int
	Question string
	Passed   bool
	Feedback string
}

type Outcome struct {
	// Skipped is set when the comment was not a submission this run
	// should grade. Nothing is posted for skipped comments.
	Skipped    bool
	SkipReason string
	Passed     bool
	Results    []Result
	Verdict    string
}

type Grader struct {
	Host         Host
	Oracle       Oracle
	Format       codec.Format
	AuthorOnly   bool
	ApprovalBody string
	Log          *zap.SugaredLogger
	UI           *output.UI
}

// Run grades a submission against the answer key found in the PR
// comments. A failed check posts its verdict and returns ErrGradingFailed.
func (g *Grader) Run(ctx context.Context, sub Submission) (Outcome, error) {
	if !codec.IsTriggered(sub.Body) {
		g.Log.Infow("comment is not an answer submission, skipping", "pr", sub.PR, "comment_id", sub.CommentID)
		return Outcome{Skipped: true, SkipReason: codec.ErrNotTriggered.Error()}, nil
	}
	if g.AuthorOnly && sub.PRAuthor != "" && !strings.EqualFold(sub.CommentAuthor, sub.PRAuthor) {
		g.Log.Infow("submission not from the PR author, skipping", "pr", sub.PR, "author", sub.PRAuthor, "commenter", sub.CommentAuthor)
		return Outcome{Skipped: true, SkipReason: "comment author is not the PR author"}, nil
	}

	reply, err := codec.ParseReply(g.Format, sub.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid answer submission: %w", err)
	}
	if len(reply.Duplicates) > 0 {
		g.Log.Warnw("answer numbers repeated, keeping the last of each", "indices", reply.Duplicates)
		g.UI.Warning("Answers numbered %v appear more than once; the last of each was used", reply.Duplicates)
	}

	g.UI.Step("Fetching answer key...")
	comments, err := g.Host.ListIssueComments(ctx, sub.PR)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to fetch PR comments: %w", err)
	}
	bodies := make([]string, 0, len(comments))
	for _, c := range comments {
		bodies = append(bodies, c.Body)
	}
	set, err := codec.Find(g.Format, bodies)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to extract answer key: %w", err)
	}
	g.UI.Success("Answer key extracted (%d question(s))", len(set))

	out := Outcome{Passed: true}
	for _, item := range set {
		g.UI.Step("Validating answer %d...", item.Index)
		resp, err := g.Oracle.Grade(ctx, oracle.GradeRequest{
			Question:  item.Question,
			Reference: item.Answer,
			Submitted: reply.Answers[item.Index],
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to validate answer %d: %w", item.Index, err)
		}
		out.Results = append(out.Results, Result{
			Index:    item.Index,
			Question: item.Question,
			Passed:   resp.Passed,
			Feedback: resp.Feedback,
		})
		if !resp.Passed {
			out.Passed = false
		}
		g.Log.Infow("answer graded", "pr", sub.PR, "index", item.Index, "passed", resp.Passed)
	}

	if out.Passed {
		err = g.pass(ctx, sub, &out)
	} else {
		err = g.fail(ctx, sub, &out)
	}
	return out, err
}

func (g *Grader) pass(ctx context.Context, sub Submission, out *Outcome) error {
	g.UI.Success("All answers passed")
	if err := g.Host.Approve(ctx, sub.PR, g.ApprovalBody); err != nil {
		g.Log.Warnw("could not approve PR", "pr", sub.PR, "error", err)
		g.UI.Warning("Could not approve PR (the bot may be the PR author)")
	}
	out.Verdict = RenderSuccess()
	if err := g.Host.PostComment(ctx, sub.PR, out.Verdict); err != nil {
		return fmt.Errorf("failed to post verdict: %w", err)
	}
	g.react(ctx, sub, "+1")
	g.UI.Success("Vibe check passed")
	return nil
}

func (g *Grader) fail(ctx context.Context, sub Submission, out *Outcome) error {
	failed := 0
	for _, r := range out.Results {
		if !r.Passed {
			failed++
		}
	}
	g.UI.Fail("%d of %d answer(s) did not pass", failed, len(out.Results))
	out.Verdict = RenderFailure(g.Format.Arity(), out.Results)
	if err := g.Host.PostComment(ctx, sub.PR, out.Verdict); err != nil {
		return fmt.Errorf("failed to post verdict: %w", err)
	}
	g.react(ctx, sub, "-1")
	return fmt.Errorf("%w: %d of %d answer(s) did not pass", ErrGradingFailed, failed, len(out.Results))
}

func (g *Grader) react(ctx context.Context, sub Submission, content string) {
	if sub.CommentID == "" {
		return
	}
	if err := g.Host.AddReaction(ctx, sub.PR, sub.CommentID, content); err != nil {
		g.Log.Warnw("could not react to submission", "comment_id", sub.CommentID, "reaction", content, "error", err)
	}
}
