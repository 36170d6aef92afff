package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/threadcart/supportbot/internal/config"
	"github.com/threadcart/supportbot/internal/loader"
	"github.com/threadcart/supportbot/internal/store"
)

func newLoadCommand(logger *slog.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the retail dataset from CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if dir == "" {
				dir = cfg.DataDir
			}

			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return fmt.Errorf("create db directory: %w", err)
			}
			sqlStore, err := store.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer sqlStore.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := sqlStore.AutoMigrate(ctx); err != nil {
				return err
			}
			return loader.New(sqlStore, logger.With("component", "loader")).Run(ctx, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the dataset CSV files (defaults to SUPPORTBOT_DATA_DIR)")
	return cmd
}
