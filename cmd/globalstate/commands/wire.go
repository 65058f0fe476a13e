package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/jask/globalstate/internal/config"
	"github.com/jask/globalstate/internal/database"
	"github.com/jask/globalstate/internal/database/repository"
	"github.com/jask/globalstate/internal/global"
	"github.com/jask/globalstate/internal/service"
	"github.com/jask/globalstate/internal/store"
)

// env is the dependency graph shared by every subcommand.
type env struct {
	db          *sql.DB
	logger      *log.Logger
	logFile     *os.File
	persister   *service.Persister[global.State]
	maintenance *service.MaintenanceService
	store       *store.Store[global.State]
}

// defaultState is the state used the first time the app runs, taken from
// the ui section of the config.
func defaultState(cfg config.Config, logger *log.Logger) global.State {
	s := global.InitialState
	if t, err := global.ParseTheme(cfg.UI.Theme); err == nil {
		s.Theme = t
	} else if cfg.UI.Theme != "" {
		logger.Printf("warn: %v; using %s", err, s.Theme)
	}
	s.SidebarOpen = cfg.UI.SidebarOpen
	return s
}

func openLogger(cfg config.Config, interactive bool) (*log.Logger, *os.File, error) {
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return log.New(f, "globalstate: ", log.LstdFlags), f, nil
	}
	if interactive {
		return log.New(io.Discard, "", 0), nil, nil
	}
	return log.New(os.Stderr, "globalstate: ", log.LstdFlags), nil, nil
}

func wire(ctx context.Context, cfg config.Config, interactive bool) (*env, error) {
	logger, logFile, err := openLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}
	e := &env{logger: logger, logFile: logFile}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.db = db
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		e.close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	e.persister = &service.Persister[global.State]{
		Snapshots: repository.NewSnapshotRepo(db),
		Journal:   repository.NewJournalRepo(db),
		Slice:     global.Slice,
		Logger:    logger,
	}
	e.maintenance = &service.MaintenanceService{DB: db, Logger: logger}

	first := defaultState(cfg, logger)
	seed, err := json.Marshal(first)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("encode default state: %w", err)
	}
	seeded, err := database.SeedDefaults(ctx, db, map[string][]byte{global.Name: seed})
	if err != nil {
		e.close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	if slices.Contains(seeded, global.Name) {
		if err := e.persister.MarkHydrated(ctx, first); err != nil {
			e.close()
			return nil, err
		}
	}

	saved, _, err := e.persister.Rehydrate(ctx)
	if err != nil {
		logger.Printf("warn: %v; starting from defaults", err)
		saved = defaultState(cfg, logger)
	}

	middleware := []store.Middleware[global.State]{store.Recover[global.State](logger)}
	if cfg.Log.Dispatch {
		middleware = append(middleware, store.Logging[global.State](logger))
	}
	middleware = append(middleware, e.persister.Middleware())

	st, err := store.New(global.Slice.Reducer(),
		store.WithPreloadedState(saved),
		store.WithMiddleware(middleware...),
		store.WithLogger[global.State](logger),
	)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("build store: %w", err)
	}
	st.Subscribe(e.persister.Subscriber(ctx))
	e.store = st
	return e, nil
}

func (e *env) close() {
	if e == nil {
		return
	}
	if e.db != nil {
		_ = e.db.Close()
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}
