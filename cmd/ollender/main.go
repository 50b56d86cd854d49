package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"

	"github.com/ollender/ollender/internal/cli"
	"github.com/ollender/ollender/internal/config"
	"github.com/ollender/ollender/internal/google"
	"github.com/ollender/ollender/internal/llm"
	"github.com/ollender/ollender/internal/logging"
	"github.com/ollender/ollender/internal/scheduling"
	"github.com/ollender/ollender/internal/service"
	"github.com/ollender/ollender/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.Setup(cfg.Verbose)

	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if cfg.Verbose {
		observer = llm.NewLogObserver(os.Stderr)
	}
	chatClient := llm.NewOllamaClient(llmCfg, observer)

	app := &cli.App{Config: cfg}

	// Connectors are built lazily so `auth` works before a token exists.
	app.Events = func(multiStep bool) (*service.EventService, error) {
		calendar, _, err := googleClients(cfg)
		if err != nil {
			return nil, err
		}
		session := llm.NewSession(chatClient, scheduling.SystemPrompt, slog.Default())
		svcCfg := service.EventServiceConfig{MaxUpcoming: cfg.MaxUpcoming, MultiStep: multiStep}
		return service.NewEventService(calendar, session, svcCfg, slog.Default()), nil
	}

	app.Tasks = func() (*service.TaskService, error) {
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		repo := store.NewTaskRepo(db)

		// Task mirroring is best-effort; without credentials tasks stay local.
		var sink service.TaskSink
		if _, tasks, err := googleClients(cfg); err == nil {
			sink = tasks
		} else {
			slog.Warn("google tasks unavailable, tasks will be stored locally only", "error", err)
		}

		session := llm.NewSession(chatClient, service.TaskSystemPrompt, slog.Default())
		return service.NewTaskService(repo, sink, session, slog.Default()), nil
	}

	return cli.NewRootCmd(app).Execute()
}

// googleClients authenticates from the stored token and builds both
// connectors.
func googleClients(cfg config.Config) (*google.CalendarClient, *google.TasksClient, error) {
	ctx := context.Background()

	oauthCfg, err := google.OAuthConfig(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		cfg.CredentialsFile,
	)
	if err != nil {
		return nil, nil, err
	}

	token, err := tokenOrHint(cfg.TokenFile)
	if err != nil {
		return nil, nil, err
	}

	calendar, err := google.NewCalendarClient(ctx, oauthCfg, token, cfg.CalendarID, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	tasks, err := google.NewTasksClient(ctx, oauthCfg, token, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return calendar, tasks, nil
}

func tokenOrHint(path string) (*oauth2.Token, error) {
	token, err := google.TokenFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("no valid token at %s, run 'ollender auth' first: %w", path, err)
	}
	return token, nil
}
