package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/trivia/internal/config"
	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/logger"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/source"
	"github.com/abhisek/trivia/internal/store"
	"github.com/abhisek/trivia/internal/trivia"
)

// env bundles the dependencies shared by the commands.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	metrics *metrics.Metrics
	source  trivia.Source

	stopMetrics context.CancelFunc
}

// loadConfig reads configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// resolveDBPath returns cfg.DBPath (from --db or TRIVIA_DB) or the default
// XDG path, creating the parent directory.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the request log named by the config.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newEnv builds config, logger, store, metrics and the question source.
// The caller must call close.
func newEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	e := &env{cfg: cfg, log: log, store: st, metrics: metrics.New(), stopMetrics: func() {}}

	if addr := cfg.Metrics.Addr; addr != "" {
		mctx, cancel := context.WithCancel(ctx)
		e.stopMetrics = cancel
		go func() {
			if err := e.metrics.Serve(mctx, addr); err != nil {
				log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", addr))
	}

	src, err := source.New(ctx, cfg, log, st.RequestRepo(), e.metrics)
	if err != nil {
		e.close()
		return nil, err
	}
	e.source = src
	log.Info("starting", zap.String("source", src.Name()), zap.String("version", version))
	return e, nil
}

// controller returns a controller seeded with settings.
func (e *env) controller(settings trivia.Settings) *game.Controller {
	return game.New(settings, game.Options{
		QuestionTime: e.cfg.Game.QuestionTime,
		RevealDelay:  e.cfg.Game.RevealDelay,
	})
}

func (e *env) close() {
	e.stopMetrics()
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", zap.Error(err))
	}
	_ = e.log.Sync()
}
