package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"raf_pnp_backend/internal/seed"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rafctl",
	Short: "Operator CLI for the RAF case management backend",
	Long: `rafctl runs maintenance tasks against the RAF case database.
Configuration is read from the environment (and .env) exactly as the API reads it.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	registerCommands()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func registerCommands() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(transitionsCmd())
	rootCmd.AddCommand(reportCmd())
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Apply or inspect database migrations"}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := db.RunMigrations(cmd.Context(), cfg, cfg.MigrationsDir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied state of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return db.MigrationStatus(cmd.Context(), cfg, cfg.MigrationsDir)
		},
	})
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample staff, clients and cases",
		Long:  "Insert the sample staff, clients and cases. Staff is skipped when users exist; clients and cases are skipped when clients exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) error {
				res, err := seed.New(pool, db.NewTxManager(pool), cfg.GetLocation(), log).Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d teams, %d members, %d clients, %d cases\n",
					res.Users, res.Teams, res.Members, res.Clients, res.Cases)
				return nil
			})
		},
	}
}

func withPool(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, cfg, pool, log)
}
