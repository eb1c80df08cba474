package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/app"
	"github.com/kedr891/steam-inventory/internal/storage/pgstorage"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "invctl",
		Short:        "Steam inventory maintenance commands",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to YAML config")

	loadConfig := func() (*config.Config, error) {
		return config.LoadConfig(configPath)
	}

	root.AddCommand(
		newFetchCmd(loadConfig),
		newExportCmd(loadConfig),
		newMigrateCmd(loadConfig),
	)

	return root
}

func newFetchCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <steamid> <appid>",
		Short: "Fetch an inventory and replace its snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid appid %q: %w", args[1], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := app.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			_, done := s.Runner.Submit(ctx, args[0], appID)
			if err := <-done; err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Inventory saved to database")
			return nil
		},
	}
}

func newExportCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var quiet, fresh bool

	cmd := &cobra.Command{
		Use:   "export <steamid>",
		Short: "Compose priced inventory and write the export artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := app.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if fresh {
				if err := s.Exporter.Invalidate(ctx, args[0]); err != nil {
					return fmt.Errorf("drop cached export: %w", err)
				}
			}

			groups, err := s.Exporter.Export(ctx, args[0])
			if err != nil {
				return err
			}

			if quiet {
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only write the artifact")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "drop the cached composition before exporting")

	return cmd
}

func newMigrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate needs storage driver %s, got %s", config.DriverPostgres, cfg.Storage.Driver)
			}

			if err := pgstorage.Migrate(cfg.PG.URL); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
