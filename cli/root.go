package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/app"
	"taskboard/config"
	"taskboard/logger"
	"taskboard/store"
	"taskboard/tui"
)

var _ app.Persister = (*store.Persister)(nil)

// runTUI is swapped in tests so the tui command does not need a terminal.
var runTUI = tui.Run

// session is the per-invocation wiring shared by every subcommand.
type session struct {
	configFile string
	driver     string
	dataDir    string
	logLevel   string

	cfg       *config.Config
	logger    *zap.Logger
	persister *store.Persister
	svc       *app.Service
	status    string
}

func NewRootCommand() *cobra.Command {
	s := &session{}
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard - tasks, categories and tags from the terminal",
		Long: `Taskboard keeps a local board of tasks with priorities, due dates,
categories and tags. State is saved after every change to the configured
storage backend (file, bolt, sqlite, redis or memory).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.open(cmd.Context()); err != nil {
				return err
			}
			if s.status != "" && cmd.Name() != "tui" {
				fmt.Fprintln(cmd.ErrOrStderr(), s.status)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.configFile, "config", "", "config file (default: taskboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&s.driver, "driver", "", "storage driver: file, bolt, sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&s.dataDir, "data-dir", "", "directory for file-based storage")
	rootCmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAddCommand(s),
		newListCommand(s),
		newShowCommand(s),
		newEditCommand(s),
		newDoneCommand(s),
		newRemoveCommand(s),
		newPriorityCommand(s),
		newDueCommand(s),
		newOrderCommand(s),
		newTagCommand(s),
		newCategoryCommand(s),
		newBulkCommand(s),
		newStatsCommand(s),
		newPrefsCommand(s),
		newTUICommand(s),
	)
	return rootCmd
}

func (s *session) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(s.configFile)
	if err != nil {
		return err
	}
	if s.driver != "" {
		cfg.Storage.Driver = s.driver
	}
	if s.dataDir != "" {
		cfg.Storage.DataDir = s.dataDir
	}
	if s.logLevel != "" {
		cfg.Logger.Level = s.logLevel
	}
	s.cfg = cfg

	log, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = log

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	blobs, err := store.Open(ctx, store.Options{
		Driver:     cfg.Storage.Driver,
		DataDir:    cfg.Storage.DataDir,
		MaxBackups: cfg.Storage.MaxBackups,
		Redis: store.RedisConfig{
			URL:      cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	s.persister = store.NewPersister(blobs,
		store.WithKeyPrefix(cfg.Storage.KeyPrefix),
		store.WithTimeout(cfg.Storage.Timeout),
		store.WithLogger(log.Named("store")),
	)

	snap, status := s.persister.Load()
	s.status = status
	s.svc = app.NewService(snap,
		app.WithPersister(s.persister),
		app.WithLogger(log.Named("app")),
		app.WithLocation(loc),
	)
	s.svc.LoadSortPreference()
	log.Debug("board loaded",
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("tasks", len(snap.Tasks)),
		zap.Int("categories", len(snap.Categories)),
	)
	return nil
}

func (s *session) close() error {
	var err error
	if s.persister != nil {
		err = s.persister.Close()
		s.persister = nil
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return err
}
