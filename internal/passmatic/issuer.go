package passmatic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/passmatic/passmatic/internal/codec"
	"github.com/passmatic/passmatic/internal/diff"
	"github.com/passmatic/passmatic/internal/output"
	"github.com/passmatic/passmatic/internal/redact"
)

type Issuer struct {
	Host   Host
	Oracle Oracle
	Format codec.Format
	Diff   diff.Options
	Redact bool
	Log    *zap.SugaredLogger
	UI     *output.UI
}

type IssueResult struct {
	Set    codec.IssuedSet
	Body   string
	Posted bool
	// Skipped is set when the PR already carries a question comment.
	Skipped bool
}

// Run fetches the diff of pr, builds the question comment and posts it
// unless dryRun is set. A PR that already has a question comment is left
// alone, since grading always reads the first one.
func (i *Issuer) Run(ctx context.Context, pr string, dryRun bool) (IssueResult, error) {
	if !dryRun {
		asked, err := i.alreadyAsked(ctx, pr)
		if err != nil {
			return IssueResult{}, err
		}
		if asked {
			i.Log.Infow("question comment already present, skipping", "pr", pr, "format", i.Format.Version())
			i.UI.Step("Skipped: PR #%s already has a vibe check", pr)
			return IssueResult{Skipped: true}, nil
		}
	}

	i.UI.Step("Analyzing PR #%s changes...", pr)
	raw, err := i.Host.PRDiff(ctx, pr)
	if err != nil {
		return IssueResult{}, fmt.Errorf("failed to fetch PR diff: %w", err)
	}
	i.UI.Success("Diff fetched (%d characters)", len(raw))

	res, err := i.Compose(ctx, raw)
	if err != nil {
		return IssueResult{}, err
	}
	if dryRun {
		i.Log.Infow("dry run, question comment not posted", "pr", pr)
		return res, nil
	}

	i.UI.Step("Posting vibe check...")
	if err := i.Host.PostComment(ctx, pr, res.Body); err != nil {
		return IssueResult{}, fmt.Errorf("failed to post question comment: %w", err)
	}
	res.Posted = true
	i.Log.Infow("question comment posted", "pr", pr, "format", i.Format.Version(), "questions", len(res.Set))
	i.UI.Success("Vibe check posted successfully")
	return res, nil
}

func (i *Issuer) alreadyAsked(ctx context.Context, pr string) (bool, error) {
	comments, err := i.Host.ListIssueComments(ctx, pr)
	if err != nil {
		return false, fmt.Errorf("failed to fetch PR comments: %w", err)
	}
	for _, c := range comments {
		if strings.Contains(c.Body, i.Format.Marker()) {
			return true, nil
		}
	}
	return false, nil
}

// Compose turns a raw diff into the encoded question comment without
// touching the host.
func (i *Issuer) Compose(ctx context.Context, raw string) (IssueResult, error) {
	prepared, err := diff.Prepare(raw, i.Diff)
	if err != nil {
		return IssueResult{}, err
	}
	if len(prepared.Skipped) > 0 || prepared.Truncated {
		i.Log.Infow("diff trimmed for the oracle", "files", prepared.Files, "skipped", prepared.Skipped, "truncated", prepared.Truncated)
	}
	text := prepared.Text
	if i.Redact {
		var hits map[string]int
		text, hits = redact.Scan(text)
		if len(hits) > 0 {
			i.Log.Warnw("redacted secrets from diff", "hits", hits)
		}
	}

	n := i.Format.Arity()
	i.UI.Step("Generating %d question(s)...", n)
	resp, err := i.Oracle.AskQuestions(ctx, text, n)
	if err != nil {
		return IssueResult{}, fmt.Errorf("failed to generate questions: %w", err)
	}
	set := resp.Set()
	for _, item := range set {
		i.UI.Success("Question %d generated: %s", item.Index, output.Truncate(item.Question, 50))
	}

	body, err := i.Format.Encode(set)
	if err != nil {
		return IssueResult{}, fmt.Errorf("failed to encode question comment: %w", err)
	}
	return IssueResult{Set: set, Body: body}, nil
}
