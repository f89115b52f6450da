package main

import (
	"fmt"

	"github.com/dafibh/household/household-backend/internal/repository/postgres"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		RunE:  runMigrate,
	}
	cmd.Flags().Bool("down", false, "Roll back instead of applying")
	cmd.Flags().Int("steps", 0, "With --down, how many migrations to roll back (0 means all)")
	cmd.Flags().Bool("status", false, "Show the applied schema version without changing anything")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	down, _ := cmd.Flags().GetBool("down")
	steps, _ := cmd.Flags().GetInt("steps")

	switch {
	case status:
		s, err := postgres.GetMigrationStatus(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", s.Version, s.Dirty)
		return nil
	case down:
		if err := postgres.RollbackMigrations(cfg.DatabaseURL, steps); err != nil {
			return err
		}
		log.Info().Int("steps", steps).Msg("Migrations rolled back")
		return nil
	default:
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("Migrations applied")
		return nil
	}
}
