package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alexanderramin/strata/internal/cli"
	"github.com/alexanderramin/strata/internal/config"
	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/events"
	"github.com/alexanderramin/strata/internal/membership"
	"github.com/alexanderramin/strata/internal/repository"
	"github.com/alexanderramin/strata/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	reads := repository.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	gate := membership.NewGate(cfg.Admins...)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr, level))
	}

	app := &cli.App{
		Projects:  service.NewProjectService(reads, uow, gate, cfg.Limits, observers...),
		Modules:   service.NewModuleService(reads, uow, gate, cfg.Limits, observers...),
		UseCases:  service.NewUseCaseService(reads, uow, gate, cfg.Limits, observers...),
		Tasks:     service.NewTaskService(reads, uow, gate, cfg.Limits, observers...),
		Relations: service.NewRelationService(reads, uow, gate, cfg.Limits, observers...),
		Hierarchy: service.NewHierarchyService(uow, gate, observers...),
		User:      cfg.User,
		Confirm:   cli.HuhConfirm,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if cfg.RedisURL != "" {
		client, err := events.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		app.Events = events.NewRelay(reads.Events, events.NewRedisPublisher(client), cfg.EventChannelPrefix)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
