package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/cloud"
	"github.com/rnwolfe/grind/internal/config"
	"github.com/rnwolfe/grind/internal/session"
	"github.com/rnwolfe/grind/internal/store"
	"github.com/rnwolfe/grind/internal/tracker"
)

// app is everything a command needs, opened once per invocation.
type app struct {
	cfg      *config.Config
	settings tracker.Settings
	db       *store.DB
	repo     tracker.Repository
	svc      *tracker.Service
	sessions *session.Saver
	closers  []func() error
}

// userID is the owner stamped on and required for every record.
func (a *app) userID() string { return a.cfg.User.ID }

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Debug("close failed", "err", err)
		}
	}
}

// openApp loads config, assigns a user id on first run and opens the
// configured record store. The local database is always opened since the
// in-progress session lives there regardless of backend.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if created, err := config.EnsureUser(cfg); err != nil {
		return nil, err
	} else if created {
		slog.Debug("assigned user id", "user", cfg.User.ID)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid tracking config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a := &app{
		cfg:      cfg,
		settings: settings,
		db:       db,
		sessions: session.NewSaver(store.NewKV(db.Conn())),
		closers:  []func() error{db.Close},
	}

	switch cfg.Store.Backend {
	case config.BackendFirestore:
		client, err := cloud.NewClient(ctx, cfg.Store.FirestoreProject)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.repo = cloud.NewRepo(client)
		slog.Debug("using firestore backend", "project", cfg.Store.FirestoreProject)
	default:
		a.repo = store.NewRepo(db.Conn())
	}
	a.svc = tracker.NewService(a.repo, nil, settings)
	return a, nil
}

// cmdContext returns the command's context, tolerating the nil commands
// tests pass to run functions.
func cmdContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
