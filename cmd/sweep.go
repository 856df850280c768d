package main

import (
	"fmt"
	"yourplaces/internal/config"
	"yourplaces/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sweepCommand removes images that no place references. It is the manual
// counterpart of the periodic sweep job.
func sweepCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Deletes stored images that no place references",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			grace, _ := cmd.Flags().GetDuration("grace")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			// the sweep never geocodes
			manager := getPlaces(ctx, cfg, strg, nil, getAssets(ctx, cfg))

			removed, err := manager.SweepOrphanedAssets(ctx, grace)
			if err != nil {
				logger.Fatal(ctx, "could not sweep images", zap.Int("removed", removed), zap.Error(err))
			}

			fmt.Printf("removed %d orphaned images\n", removed) //nolint: forbidigo
		},
	}

	cmd.Flags().Duration("grace", cfg.Worker.SweepGracePeriod, "Keep images younger than this")

	return cmd
}
