package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mission-control/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the dashboard tables and insert default rows into empty ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cfg.HasDatabase() {
				return errors.New("no database configured: set DATABASE_URL or POSTGRES_URL")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			res, err := st.Seed(ctx)
			if err != nil {
				return err
			}
			logger.Debug("seed finished",
				zap.String("dialect", string(st.Dialect())),
				zap.Int("metrics", res.Metrics),
				zap.Int("team_members", res.TeamMembers),
				zap.Int("alerts", res.Alerts),
			)

			out := cmd.OutOrStdout()
			if !res.Inserted() {
				fmt.Fprintln(out, "Database already seeded; nothing inserted")
				return nil
			}
			fmt.Fprintf(out, "Seeded %d metrics row(s), %d team member(s), %d alert(s)\n",
				res.Metrics, res.TeamMembers, res.Alerts)
			return nil
		},
	}
}
