// Package workflow generates the GitHub Actions workflow that runs
// passmatic on pull requests and answer comments.
package workflow

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = ".github/workflows/passmatic.yml"

var (
	allowedProviders = []string{"openai", "anthropic", "claude-cli"}
	allowedFormats   = []string{"v1", "v3"}
	safeVersionRE    = regexp.MustCompile(`^v[0-9]+\.[0-9]+\.[0-9]+(-[A-Za-z0-9.]+)?$`)
	safeModelRE      = regexp.MustCompile(`^[A-Za-z0-9._:/-]+$`)
)

type Config struct {
	// Provider selects the oracle backend and with it the secret the
	// workflow passes through.
	Provider string
	Model    string
	Format   string
	// Version is the passmatic release to install. Empty means latest.
	Version    string
	AuthorOnly bool
}

func DefaultConfig() Config {
	return Config{Provider: "openai", Format: "v3"}
}

func (c *Config) Validate() error {
	if !slices.Contains(allowedProviders, c.Provider) {
		return fmt.Errorf("invalid provider %q (valid: %s)", c.Provider, strings.Join(allowedProviders, ", "))
	}
	if !slices.Contains(allowedFormats, c.Format) {
		return fmt.Errorf("invalid format %q (valid: %s)", c.Format, strings.Join(allowedFormats, ", "))
	}
	if c.Version != "" && !safeVersionRE.MatchString(c.Version) {
		return fmt.Errorf("invalid passmatic version %q (expected a tag like v0.4.1)", c.Version)
	}
	if c.Model != "" && !safeModelRE.MatchString(c.Model) {
		return fmt.Errorf("invalid model name %q", c.Model)
	}
	return nil
}

// SecretName is the repository secret the provider reads its key from.
func SecretName(provider string) string {
	if provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

type document struct {
	Name        string            `yaml:"name"`
	On          triggers          `yaml:"on"`
	Permissions map[string]string `yaml:"permissions"`
	Jobs        map[string]job    `yaml:"jobs"`
}

type triggers struct {
	PullRequest  eventTypes `yaml:"pull_request"`
	IssueComment eventTypes `yaml:"issue_comment"`
}

type eventTypes struct {
	Types []string `yaml:"types,flow"`
}

type job struct {
	If     string `yaml:"if"`
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type step struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

func expr(s string) string {
	return "${{ " + s + " }}"
}

// Generate renders the workflow YAML for cfg.
func Generate(cfg Config) (string, error) {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Format == "" {
		cfg.Format = "v3"
	}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid config: %w", err)
	}

	setup := []step{
		{Name: "Set up Go", Uses: "actions/setup-go@v5", With: map[string]string{"go-version": "stable"}},
		{Name: "Install passmatic", Run: installCommand(cfg)},
	}
	if cfg.Provider == "claude-cli" {
		setup = append(setup, step{Name: "Install Claude CLI", Run: "npm install -g @anthropic-ai/claude-code@latest"})
	}

	issueEnv := baseEnv(cfg)
	issueEnv["PR_NUMBER"] = expr("github.event.pull_request.number")

	gradeEnv := baseEnv(cfg)
	gradeEnv["PR_NUMBER"] = expr("github.event.issue.number")
	gradeEnv["COMMENT_BODY"] = expr("github.event.comment.body")
	gradeEnv["COMMENT_ID"] = expr("github.event.comment.id")
	gradeEnv["PR_AUTHOR"] = expr("github.event.issue.user.login")
	gradeEnv["COMMENT_AUTHOR"] = expr("github.event.comment.user.login")

	doc := document{
		Name: "Passmatic",
		On: triggers{
			PullRequest:  eventTypes{Types: []string{"opened"}},
			IssueComment: eventTypes{Types: []string{"created"}},
		},
		Permissions: map[string]string{
			"contents":      "read",
			"issues":        "write",
			"pull-requests": "write",
		},
		Jobs: map[string]job{
			"issue": {
				If:     "github.event_name == 'pull_request'",
				RunsOn: "ubuntu-latest",
				Steps:  append(slices.Clone(setup), step{Name: "Ask questions", Env: issueEnv, Run: "passmatic issue"}),
			},
			"grade": {
				If:     "github.event_name == 'issue_comment' && github.event.issue.pull_request && startsWith(github.event.comment.body, '!answer')",
				RunsOn: "ubuntu-latest",
				Steps:  append(slices.Clone(setup), step{Name: "Grade answers", Env: gradeEnv, Run: "passmatic grade"}),
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString("# Passmatic vibe check\n")
	buf.WriteString("# Generated by: passmatic workflow\n")
	fmt.Fprintf(&buf, "# Required setup: add a repository secret named %q.\n\n", SecretName(cfg.Provider))
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode workflow: %w", err)
	}
	return buf.String(), nil
}

func installCommand(cfg Config) string {
	version := cfg.Version
	if version == "" {
		version = "latest"
	}
	return "go install github.com/passmatic/passmatic/cmd/passmatic@" + version
}

// baseEnv holds the variables both jobs share. Event text is passed
// through env, never interpolated into run scripts.
func baseEnv(cfg Config) map[string]string {
	env := map[string]string{
		"GH_TOKEN":          expr("secrets.GITHUB_TOKEN"),
		"GITHUB_REPOSITORY": expr("github.repository"),
	}
	secret := SecretName(cfg.Provider)
	env[secret] = expr("secrets." + secret)
	if cfg.Provider != "openai" {
		env["PASSMATIC_ORACLE_PROVIDER"] = cfg.Provider
	}
	if cfg.Model != "" {
		env["PASSMATIC_ORACLE_MODEL"] = cfg.Model
	}
	if cfg.Format != "v3" {
		env["PASSMATIC_QUESTIONS_FORMAT"] = cfg.Format
	}
	if cfg.AuthorOnly {
		env["PASSMATIC_GRADE_AUTHOR_ONLY"] = "true"
	}
	return env
}

// Write generates the workflow and writes it to path, creating parent
// directories. An existing file is kept unless force is set.
func Write(cfg Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("workflow file already exists: %s (use --force to overwrite)", path)
		}
	}
	content, err := Generate(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write workflow: %w", err)
	}
	return nil
}
