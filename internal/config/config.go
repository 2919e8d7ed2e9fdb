package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderClaudeCLI = "claude-cli"
)

var ErrMissingInput = errors.New("missing required input")

type Config struct {
	Trigger   TriggerConfig   `mapstructure:"trigger" json:"trigger"`
	GitHub    GitHubConfig    `mapstructure:"github" json:"github"`
	Oracle    OracleConfig    `mapstructure:"oracle" json:"oracle"`
	Questions QuestionsConfig `mapstructure:"questions" json:"questions"`
	Grade     GradeConfig     `mapstructure:"grade" json:"grade"`
	Diff      DiffConfig      `mapstructure:"diff" json:"diff"`
	Redaction RedactionConfig `mapstructure:"redaction" json:"redaction"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
	Mock      MockConfig      `mapstructure:"mock" json:"mock"`
}

// TriggerConfig carries the event inputs the CI workflow exports.
type TriggerConfig struct {
	PRNumber      string `mapstructure:"pr_number" json:"pr_number"`
	CommentBody   string `mapstructure:"comment_body" json:"comment_body"`
	CommentID     string `mapstructure:"comment_id" json:"comment_id"`
	PRAuthor      string `mapstructure:"pr_author" json:"pr_author"`
	CommentAuthor string `mapstructure:"comment_author" json:"comment_author"`
}

type GitHubConfig struct {
	Repository string        `mapstructure:"repository" json:"repository"`
	Command    string        `mapstructure:"command" json:"command"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
}

type OracleConfig struct {
	Provider            string        `mapstructure:"provider" json:"provider"`
	APIKey              string        `mapstructure:"api_key" json:"-"`
	BaseURL             string        `mapstructure:"base_url" json:"base_url"`
	Model               string        `mapstructure:"model" json:"model"`
	Command             string        `mapstructure:"command" json:"command"`
	Args                []string      `mapstructure:"args" json:"args"`
	Timeout             time.Duration `mapstructure:"timeout" json:"timeout"`
	QuestionTemperature float32       `mapstructure:"question_temperature" json:"question_temperature"`
	GradeTemperature    float32       `mapstructure:"grade_temperature" json:"grade_temperature"`
	PromptDir           string        `mapstructure:"prompt_dir" json:"prompt_dir"`
}

type QuestionsConfig struct {
	// Format selects the comment layout: v3 (three questions) or v1.
	Format string `mapstructure:"format" json:"format"`
}

type GradeConfig struct {
	AuthorOnly   bool   `mapstructure:"author_only" json:"author_only"`
	ApprovalBody string `mapstructure:"approval_body" json:"approval_body"`
}

type DiffConfig struct {
	Ignore   []string `mapstructure:"ignore" json:"ignore"`
	MaxFiles int      `mapstructure:"max_files" json:"max_files"`
	MaxChars int      `mapstructure:"max_chars" json:"max_chars"`
}

type RedactionConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// MockConfig swaps gh and the oracle for fixture files.
type MockConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Dir       string `mapstructure:"dir" json:"dir"`
	PostedLog string `mapstructure:"posted_log" json:"posted_log"`
}

func Defaults() Config {
	return Config{
		GitHub: GitHubConfig{
			Command: "gh",
			Timeout: 30 * time.Second,
		},
		Oracle: OracleConfig{
			Provider:            ProviderOpenAI,
			BaseURL:             "https://api.z.ai/api/coding/paas/v4",
			Model:               "glm-5",
			Command:             "claude",
			Args:                []string{},
			Timeout:             60 * time.Second,
			QuestionTemperature: 0.7,
			GradeTemperature:    0.3,
		},
		Questions: QuestionsConfig{Format: "v3"},
		Grade: GradeConfig{
			ApprovalBody: "✅ Passmatic: Approved",
		},
		Diff: DiffConfig{
			Ignore:   []string{},
			MaxFiles: 50,
			MaxChars: 60000,
		},
		Redaction: RedactionConfig{Enabled: true},
		Log:       LogConfig{Level: "info", Format: "console"},
		Mock:      MockConfig{Dir: "testdata"},
	}
}

// envBindings maps config keys to the unprefixed variables set by CI.
// PASSMATIC_<SECTION>_<KEY> works for every key as well.
var envBindings = map[string][]string{
	"trigger.pr_number":      {"PASSMATIC_TRIGGER_PR_NUMBER", "PR_NUMBER"},
	"trigger.comment_body":   {"PASSMATIC_TRIGGER_COMMENT_BODY", "COMMENT_BODY"},
	"trigger.comment_id":     {"PASSMATIC_TRIGGER_COMMENT_ID", "COMMENT_ID"},
	"trigger.pr_author":      {"PASSMATIC_TRIGGER_PR_AUTHOR", "PR_AUTHOR"},
	"trigger.comment_author": {"PASSMATIC_TRIGGER_COMMENT_AUTHOR", "COMMENT_AUTHOR"},
	"github.repository":      {"PASSMATIC_GITHUB_REPOSITORY", "GITHUB_REPOSITORY"},
	"oracle.base_url":        {"PASSMATIC_ORACLE_BASE_URL", "OPENAI_API_BASE"},
	"mock.enabled":           {"PASSMATIC_MOCK_ENABLED", "PASSMATIC_MOCK"},
	"keys.openai":            {"OPENAI_API_KEY"},
	"keys.anthropic":         {"ANTHROPIC_API_KEY"},
}

type LoadOptions struct {
	// ConfigPath is an explicit YAML file. When empty, passmatic.yaml in
	// the working directory is read if present.
	ConfigPath string
	// EnvFile is loaded into the process environment before binding. When
	// empty, .env in the working directory is loaded if present.
	EnvFile string
}

func Load(opts LoadOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetEnvPrefix("PASSMATIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	path := opts.ConfigPath
	if path == "" {
		path = "passmatic.yaml"
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Oracle.APIKey == "" {
		switch cfg.Oracle.Provider {
		case ProviderOpenAI:
			cfg.Oracle.APIKey = v.GetString("keys.openai")
		case ProviderAnthropic:
			cfg.Oracle.APIKey = v.GetString("keys.anthropic")
		}
	}
	// The z.ai defaults only make sense for the OpenAI-compatible backend.
	if cfg.Oracle.Provider != ProviderOpenAI {
		if cfg.Oracle.BaseURL == Defaults().Oracle.BaseURL {
			cfg.Oracle.BaseURL = ""
		}
		if cfg.Oracle.Model == Defaults().Oracle.Model {
			cfg.Oracle.Model = ""
		}
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("trigger.pr_number", "")
	v.SetDefault("trigger.comment_body", "")
	v.SetDefault("trigger.comment_id", "")
	v.SetDefault("trigger.pr_author", "")
	v.SetDefault("trigger.comment_author", "")
	v.SetDefault("github.repository", d.GitHub.Repository)
	v.SetDefault("github.command", d.GitHub.Command)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("oracle.provider", d.Oracle.Provider)
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.base_url", d.Oracle.BaseURL)
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.command", d.Oracle.Command)
	v.SetDefault("oracle.args", d.Oracle.Args)
	v.SetDefault("oracle.timeout", d.Oracle.Timeout)
	v.SetDefault("oracle.question_temperature", d.Oracle.QuestionTemperature)
	v.SetDefault("oracle.grade_temperature", d.Oracle.GradeTemperature)
	v.SetDefault("oracle.prompt_dir", "")
	v.SetDefault("questions.format", d.Questions.Format)
	v.SetDefault("grade.author_only", d.Grade.AuthorOnly)
	v.SetDefault("grade.approval_body", d.Grade.ApprovalBody)
	v.SetDefault("diff.ignore", d.Diff.Ignore)
	v.SetDefault("diff.max_files", d.Diff.MaxFiles)
	v.SetDefault("diff.max_chars", d.Diff.MaxChars)
	v.SetDefault("redaction.enabled", d.Redaction.Enabled)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("mock.enabled", d.Mock.Enabled)
	v.SetDefault("mock.dir", d.Mock.Dir)
	v.SetDefault("mock.posted_log", "")
}

func missing(name string) error {
	return fmt.Errorf("%w: %s environment variable not set", ErrMissingInput, name)
}

func (c Config) ValidateIssue() error {
	if strings.TrimSpace(c.Trigger.PRNumber) == "" {
		return missing("PR_NUMBER")
	}
	return c.ValidateOracle()
}

func (c Config) ValidateGrade() error {
	if strings.TrimSpace(c.Trigger.PRNumber) == "" {
		return missing("PR_NUMBER")
	}
	return c.ValidateOracle()
}

// ValidateOracle checks that the selected provider has what it needs to
// run. Mock mode needs nothing.
func (c Config) ValidateOracle() error {
	if c.Mock.Enabled {
		return nil
	}
	switch c.Oracle.Provider {
	case ProviderOpenAI:
		if c.Oracle.APIKey == "" {
			return missing("OPENAI_API_KEY")
		}
	case ProviderAnthropic:
		if c.Oracle.APIKey == "" {
			return missing("ANTHROPIC_API_KEY")
		}
	case ProviderClaudeCLI:
	default:
		return fmt.Errorf("unknown oracle provider %q (want %s, %s or %s)", c.Oracle.Provider, ProviderOpenAI, ProviderAnthropic, ProviderClaudeCLI)
	}
	return nil
}
