package main

import (
	"context"
	"encoding/json"
	"time"

	"mission-control/internal/dashboard"
	"mission-control/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBriefingCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "briefing",
		Short: "Print today's briefing as JSON",
		Long:  "Print today's briefing as JSON. Without a reachable database the fallback figures are used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var src dashboard.Source
			if cfg.HasDatabase() {
				st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
				if err != nil {
					logger.Warn("database unavailable, using fallback data", zap.Error(err))
				} else {
					defer func() { _ = st.Close() }()
					src = st
				}
			}

			b := dashboard.NewService(src, nil, logger).Briefing(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
}
