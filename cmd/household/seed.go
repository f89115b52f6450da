package main

import (
	"fmt"

	"github.com/dafibh/household/household-backend/internal/repository/postgres"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories, accounts and transactions",
		Long: `Upserts the demo data set. Accounts are matched by account number and
transactions by account, posting time, amount, type and category, so
running it again updates rather than duplicates.`,
		RunE: runSeed,
	}
	cmd.Flags().Bool("dry-run", false, "Report what would change, then roll back")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pool, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	seedService := service.NewSeedService(postgres.NewSeedRepository(pool), cfg.TimeZone)
	result, err := seedService.Seed(cmd.Context(), dryRun)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	prefix := ""
	if result.DryRun {
		prefix = "(dry run) "
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%scategories created: %d, accounts upserted: %d, transactions created: %d, updated: %d\n",
		prefix, result.CategoriesCreated, result.AccountsUpserted, result.TransactionsCreated, result.TransactionsUpdated)
	return nil
}
