package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"luna_assistant/internal/catalog"
	"luna_assistant/internal/cli"
	"luna_assistant/internal/config"
	"luna_assistant/internal/conversation"
	"luna_assistant/internal/core"
	"luna_assistant/internal/httpapi"
	"luna_assistant/internal/llm"
	"luna_assistant/internal/logger"
	"luna_assistant/internal/observability"
	"luna_assistant/internal/preference"
	"luna_assistant/internal/routing"
	"luna_assistant/internal/session"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logger.InitLogger(cfg.LogConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Error().Err(err).Msg("luna stopped with error")
	}
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rules, err := routing.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	chatModel, err := llm.NewChatModel(ctx, cfg.LLMConfig)
	if err != nil {
		return err
	}

	engine, err := conversation.NewEngine(ctx, chatModel, cfg.ConversationConfig, cfg.LLMConfig.Timeout)
	if err != nil {
		return err
	}

	extractor, err := preference.NewExtractor(ctx, chatModel, cfg.LLMConfig.Timeout)
	if err != nil {
		return err
	}

	repo, storeCheck, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	sessions := session.NewManager(repo)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sessions.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("error closing session store")
		}
	}()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	metrics.WatchSessions(cfg.MetricsNamespace, sessions.Count)

	router, err := core.NewRouter(ctx, core.Deps{
		Catalog:   catalog.New(),
		Rules:     rules,
		Engine:    engine,
		Extractor: extractor,
		Sessions:  sessions,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("mode", cfg.Mode).
		Str("provider", cfg.LLMConfig.Provider).
		Str("session_store", cfg.SessionConfig.Store).
		Msg("luna ready")

	if strings.ToLower(cfg.Mode) == "http" {
		return serveHTTP(ctx, cfg, router, metrics, storeCheck)
	}
	// unblock the pending read on shutdown
	go func() {
		<-ctx.Done()
		_ = os.Stdin.Close()
	}()
	return cli.NewREPL(router, uuid.NewString(), os.Stdin, os.Stdout).Run(ctx)
}

// newRepository also returns the readiness check for stores that live out of
// process; it is nil for the in-memory store.
func newRepository(ctx context.Context, cfg *config.Config) (session.Repository, llm.Checker, error) {
	if strings.ToLower(cfg.SessionConfig.Store) != "redis" {
		return session.NewMemoryRepository(cfg.SessionConfig.TTL), nil, nil
	}

	instance := uuid.NewString()
	repo, err := session.NewRedisRepository(ctx, cfg.SessionConfig.RedisURL, cfg.SessionConfig.TTL, instance)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("instance", instance).Dur("ttl", cfg.SessionConfig.TTL).Msg("redis session store connected")
	return repo, llm.CheckFunc(repo.Ping), nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, router *core.Router, metrics *observability.Metrics, storeCheck llm.Checker) error {
	checker, err := llm.NewChecker(cfg.LLMConfig)
	if err != nil {
		return err
	}

	checks := []httpapi.Check{{Name: "delegate", Checker: checker}}
	if storeCheck != nil {
		checks = append(checks, httpapi.Check{Name: "session_store", Checker: storeCheck})
	}

	srv := &http.Server{
		Addr:         cfg.HTTPConfig.Addr,
		Handler:      httpapi.New(router, metrics, checks...).Router(),
		ReadTimeout:  cfg.HTTPConfig.ReadTimeout,
		WriteTimeout: cfg.HTTPConfig.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
	return nil
}
