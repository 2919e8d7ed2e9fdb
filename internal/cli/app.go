package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/passmatic/passmatic/internal/codec"
	"github.com/passmatic/passmatic/internal/config"
	"github.com/passmatic/passmatic/internal/diff"
	"github.com/passmatic/passmatic/internal/github"
	"github.com/passmatic/passmatic/internal/logging"
	"github.com/passmatic/passmatic/internal/oracle"
	"github.com/passmatic/passmatic/internal/output"
	"github.com/passmatic/passmatic/internal/passmatic"
	"github.com/passmatic/passmatic/internal/prompt"
)

type appKey struct{}

type App struct {
	Config config.Config
	Log    *zap.SugaredLogger
	UI     *output.UI
	GH     *github.Client
	Oracle *oracle.Client
	Format codec.Format
}

func withApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

func getApp(ctx context.Context) (*App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("internal error: app not initialized")
	}
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("internal error: app not initialized")
	}
	return app, nil
}

func initApp(opts config.LoadOptions, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, err
	}
	format, err := codec.Lookup(cfg.Questions.Format)
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.Load(cfg.Oracle.PromptDir)
	if err != nil {
		return nil, err
	}

	var ghRunner github.Runner = github.RealRunner{Binary: cfg.GitHub.Command}
	var backend oracle.Backend
	if cfg.Mock.Enabled {
		ghRunner = github.FixtureRunner{
			Root:    filepath.Join(cfg.Mock.Dir, "gh"),
			LogPath: cfg.Mock.PostedLog,
		}
		backend = oracle.NewFixtureBackend(filepath.Join(cfg.Mock.Dir, "oracle"))
		log.Infow("mock mode enabled", "dir", cfg.Mock.Dir)
	} else {
		backend, err = newBackend(cfg.Oracle)
		if err != nil {
			return nil, err
		}
	}

	return &App{
		Config: cfg,
		Log:    log,
		UI:     output.New(stdout),
		GH:     github.NewClient(ghRunner, cfg.GitHub.Repository, cfg.GitHub.Timeout),
		Oracle: oracle.NewClient(backend, oracle.Options{
			Timeout:             cfg.Oracle.Timeout,
			QuestionTemperature: cfg.Oracle.QuestionTemperature,
			GradeTemperature:    cfg.Oracle.GradeTemperature,
			Prompts:             prompts,
		}),
		Format: format,
	}, nil
}

func newBackend(cfg config.OracleConfig) (oracle.Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return oracle.NewOpenAIBackend(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderAnthropic:
		return oracle.NewAnthropicBackend(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderClaudeCLI:
		return oracle.NewClaudeCLIBackend(cfg.Command, cfg.Args), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}

func (a *App) Issuer() *passmatic.Issuer {
	return &passmatic.Issuer{
		Host:   a.GH,
		Oracle: a.Oracle,
		Format: a.Format,
		Diff: diff.Options{
			Ignore:   a.Config.Diff.Ignore,
			MaxFiles: a.Config.Diff.MaxFiles,
			MaxChars: a.Config.Diff.MaxChars,
		},
		Redact: a.Config.Redaction.Enabled,
		Log:    a.Log,
		UI:     a.UI,
	}
}

func (a *App) Grader() *passmatic.Grader {
	return &passmatic.Grader{
		Host:         a.GH,
		Oracle:       a.Oracle,
		Format:       a.Format,
		AuthorOnly:   a.Config.Grade.AuthorOnly,
		ApprovalBody: a.Config.Grade.ApprovalBody,
		Log:          a.Log,
		UI:           a.UI,
	}
}
