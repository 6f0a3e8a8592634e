package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/api/gitlab"
	"github.com/vilaca/commit-dashboard/internal/config"
	"github.com/vilaca/commit-dashboard/internal/dashboard"
	"github.com/vilaca/commit-dashboard/internal/service"
)

var (
	log = &logrus.Logger{
		Out: os.Stderr,
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Hooks: logrus.LevelHooks{},
		Level: logrus.InfoLevel,
	}
)

func main() {
	cfg, err := config.Load(os.Args)
	if err != nil {
		log.Fatalf("Error in configuration: %s", err)
	}
	log.SetLevel(cfg.LogLevel)

	app, err := buildApp(cfg)
	if err != nil {
		log.Fatalf("Error creating application: %s", err)
	}

	log.Infof("Starting Commit Dashboard on http://localhost%s", cfg.ListenAddress())
	log.Infof("GitLab: %s (commit cache: %v, project cache: %v)", cfg.GitLabURL, cfg.CommitCacheTTL, cfg.ProjectCacheTTL)
	if len(cfg.Projects) > 0 {
		log.Infof("Roster: %d projects", len(cfg.Projects))
	}
	if !cfg.HasGitLabToken() {
		log.Warn("No GitLab token configured. Set GITLAB_TOKEN; upstream calls will fail authentication")
	}

	if err := runMain(app); err != nil {
		log.Fatalln(err)
	}

	log.Infoln("Shutdown complete.")
}

// app holds the long-running parts of the dashboard.
type app struct {
	server *dashboard.Server
	warmer *service.BackgroundWarmer
}

// buildApp wires up all dependencies.
// This is the composition root where all dependencies are created and injected.
func buildApp(cfg *config.Config) (*app, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	renderer, err := dashboard.NewHTMLRenderer()
	if err != nil {
		return nil, fmt.Errorf("error creating renderer: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	var client api.Client = gitlab.NewClient(api.ClientConfig{
		BaseURL: cfg.GitLabURL,
		Token:   cfg.GitLabToken,
	}, httpClient)

	// Wrap with caching layer
	if cfg.ProjectCacheTTL > 0 {
		client = api.NewCachingClient(client, cfg.ProjectCacheTTL, log.WithField("component", "project-cache"))
	}

	activityService := service.NewActivityService(service.Config{
		Client:        client,
		Cache:         service.NewCommitCache(cfg.CommitCacheTTL, nil),
		Location:      location,
		Roster:        cfg.Projects,
		HiddenMembers: cfg.HiddenMembers,
		Logger:        log.WithField("component", "service"),
	})

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer: renderer,
		Logger:   log.WithField("component", "handler"),
		Service:  activityService,
	})
	router := dashboard.NewRouter(log.WithField("component", "http"), handler)

	srv, err := dashboard.NewServer(log.WithField("component", "server"), cfg.ListenAddress(), cfg.ShutdownTimeout, router)
	if err != nil {
		return nil, fmt.Errorf("error creating server: %w", err)
	}

	result := &app{server: srv}
	if cfg.WarmInterval > 0 && len(cfg.Projects) > 0 {
		result.warmer = service.NewBackgroundWarmer(activityService, cfg.WarmInterval, log.WithField("component", "warmer"))
	}

	return result, nil
}

func runMain(a *app) error {
	wg := &sync.WaitGroup{}
	ctx, cancel := initSignalHandler()
	defer cancel()

	if err := a.server.Start(ctx, wg); err != nil {
		return fmt.Errorf("error starting server: %s", err)
	}

	if a.warmer != nil {
		a.warmer.Start(ctx)
		defer a.warmer.Stop()
	}

	log.Infof("Startup complete.")
	wg.Wait()
	return nil
}

func initSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		log.Debugf("Got signal: %v", sig)
		cancel()
		signal.Reset(syscall.SIGTERM, syscall.SIGINT)
	}()

	return ctx, cancel
}
