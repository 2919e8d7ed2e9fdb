package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CurrentRepo lets gh fill in owner and name from the local checkout.
const CurrentRepo = "{owner}/{repo}"

const DefaultTimeout = 30 * time.Second

type Client struct {
	Runner  Runner
	Repo    string
	Timeout time.Duration
}

func NewClient(runner Runner, repo string, timeout time.Duration) *Client {
	if repo == "" {
		repo = CurrentRepo
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Runner: runner, Repo: repo, Timeout: timeout}
}

func (c *Client) run(ctx context.Context, args []string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	return c.Runner.Run(ctx, args, stdin)
}

func (c *Client) CheckInstalled(binary string) error {
	if binary == "" {
		binary = "gh"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%s CLI not found in PATH", binary)
	}
	return nil
}

func (c *Client) AuthStatus(ctx context.Context) error {
	_, err := c.run(ctx, []string{"auth", "status"}, nil)
	return err
}

type UserRef struct {
	Login string `json:"login"`
}

type IssueComment struct {
	ID        int64   `json:"id"`
	Body      string  `json:"body"`
	User      UserRef `json:"user"`
	CreatedAt string  `json:"created_at"`
	HTMLURL   string  `json:"html_url"`
}

// prArgs converts a PR reference (number, owner/repo#N or URL) to gh CLI
// args. Bare numbers are pinned to c.Repo when one is configured.
func (c *Client) prArgs(ref string) []string {
	repo, number, err := ParsePR(ref)
	if err == nil && repo != "" {
		return []string{"-R", repo, strconv.Itoa(number)}
	}
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if c.Repo != "" && c.Repo != CurrentRepo {
		return []string{"-R", c.Repo, ref}
	}
	return []string{ref}
}

// apiTarget resolves the repository and number used in REST endpoints.
func (c *Client) apiTarget(ref string) (string, int, error) {
	repo, number, err := ParsePR(ref)
	if err == nil {
		return repo, number, nil
	}
	number, err = strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("invalid PR reference %q", ref)
	}
	return c.Repo, number, nil
}

func (c *Client) PRDiff(ctx context.Context, pr string) (string, error) {
	args := append([]string{"pr", "diff"}, c.prArgs(pr)...)
	output, err := c.run(ctx, args, nil)
	if err != nil {
		return "", err
	}
	return string(output), nil
}

func (c *Client) ListIssueComments(ctx context.Context, pr string) ([]IssueComment, error) {
	repo, number, err := c.apiTarget(pr)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("repos/%s/issues/%d/comments?per_page=100", repo, number)
	output, err := c.run(ctx, []string{"api", endpoint, "--paginate"}, nil)
	if err != nil {
		return nil, err
	}
	return decodeCommentPages(output)
}

// decodeCommentPages reads the output of a paginated listing, which gh
// prints as one JSON array per page.
func decodeCommentPages(output []byte) ([]IssueComment, error) {
	var comments []IssueComment
	dec := json.NewDecoder(bytes.NewReader(output))
	for {
		var page []IssueComment
		err := dec.Decode(&page)
		if errors.Is(err, io.EOF) {
			return comments, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode issue comments: %w", err)
		}
		comments = append(comments, page...)
	}
}

func (c *Client) PostComment(ctx context.Context, pr string, body string) error {
	args := append([]string{"pr", "comment"}, c.prArgs(pr)...)
	args = append(args, "--body-file", "-")
	_, err := c.run(ctx, args, []byte(body))
	return err
}

func (c *Client) Approve(ctx context.Context, pr string, body string) error {
	args := append([]string{"pr", "review"}, c.prArgs(pr)...)
	args = append(args, "--approve", "--body", body)
	_, err := c.run(ctx, args, nil)
	return err
}

func (c *Client) AddReaction(ctx context.Context, pr string, commentID string, content string) error {
	repo, _, err := c.apiTarget(pr)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("repos/%s/issues/comments/%s/reactions", repo, commentID)
	args := []string{"api", "-X", "POST", endpoint, "-f", "content=" + content}
	_, err = c.run(ctx, args, nil)
	return err
}

var prRefRe = regexp.MustCompile(`^([^/]+/[^#]+)#([0-9]+)$`)

func ParsePR(ref string) (repo string, number int, err error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		parsed, parseErr := url.Parse(ref)
		if parseErr != nil {
			return "", 0, fmt.Errorf("invalid PR URL")
		}
		parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(parts) < 4 || parts[2] != "pull" {
			return "", 0, fmt.Errorf("invalid PR URL")
		}
		repo = fmt.Sprintf("%s/%s", parts[0], parts[1])
		number, err = strconv.Atoi(parts[3])
		if err != nil {
			return "", 0, fmt.Errorf("invalid PR URL")
		}
		return repo, number, nil
	}

	matches := prRefRe.FindStringSubmatch(ref)
	if len(matches) != 3 {
		return "", 0, fmt.Errorf("invalid PR reference")
	}

	number, err = strconv.Atoi(matches[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid PR reference")
	}
	return matches[1], number, nil
}
