package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vnkatpara-dev/TastePulse/internal/aggregation"
	"github.com/vnkatpara-dev/TastePulse/internal/app"
	"github.com/vnkatpara-dev/TastePulse/internal/classifier"
	"github.com/vnkatpara-dev/TastePulse/internal/config"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	"github.com/vnkatpara-dev/TastePulse/internal/repository/postgres"
	"github.com/vnkatpara-dev/TastePulse/internal/synth"
	"github.com/vnkatpara-dev/TastePulse/pkg/logger"
)

type seedOptions struct {
	synthetic int
	seed      int64
	months    int
	dryRun    bool
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}
	def := synth.DefaultOptions()

	cmd := &cobra.Command{
		Use:     "tastepulse-seed",
		Version: app.Version,
		Short:   "Seed the TastePulse review store",
		Long: `Seed the TastePulse review store.

Loads the twelve sample reviews, then --synthetic N generated reviews spread
over the last --months months. Generated review IDs depend only on --seed, so
re-running with the same flags writes nothing new.

Examples:
  tastepulse-seed
  tastepulse-seed --synthetic 5000 --months 12
  tastepulse-seed --synthetic 500 --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.synthetic, "synthetic", "n", 0, "number of synthetic reviews to generate")
	cmd.Flags().Int64Var(&opts.seed, "seed", def.Seed, "random seed for synthetic reviews")
	cmd.Flags().IntVar(&opts.months, "months", def.Months, "months of history to spread synthetic reviews over")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "generate and summarize without writing")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, opts seedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.synthetic < 0 {
		return fmt.Errorf("--synthetic must not be negative")
	}

	generated, err := synth.Generate(ctx, classifier.NewLexicon(), repository.SeedRestaurants(), synth.Options{
		Count:  opts.synthetic,
		Seed:   opts.seed,
		Months: opts.months,
		End:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if opts.dryRun {
		all := append(repository.SeedReviews(), generated...)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(aggregation.Analytics(all))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return fmt.Errorf("seeding needs STORAGE_DRIVER=%s, got %q", config.StorageDriverPostgres, cfg.StorageDriver)
	}
	log := logger.New("tastepulse-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	pool, err := app.OpenPostgres(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewReviewRepository(pool)
	if err := repository.Seed(ctx, store); err != nil {
		return fmt.Errorf("seed sample reviews: %w", err)
	}
	log.Info("sample reviews seeded")

	n, err := synth.Load(ctx, store, generated, log)
	if err != nil {
		return err
	}
	log.Info("seed complete", slog.Int("synthetic", n))
	return nil
}
