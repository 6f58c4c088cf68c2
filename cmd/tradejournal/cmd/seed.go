package cmd

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/internal/seed"
	"github.com/rustyeddy/tradejournal/internal/uploads"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the journal with sample trades",
	Long: `Generate random but plausible FX trades for demos.

Examples:
  tradejournal seed --count 50
  tradejournal seed --clear --count 100 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var (
	seedCount int
	seedDays  int
	seedClear bool
	seedValue int64
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 50, "number of trades to generate")
	seedCmd.Flags().IntVar(&seedDays, "days", 180, "spread entries over this many past days")
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "delete every existing trade and image first")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed (default: current time)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount <= 0 {
		return fmt.Errorf("--count must be positive")
	}

	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	if seedClear {
		images, err := j.DeleteAllTrades(ctx)
		if err != nil {
			return fmt.Errorf("clear journal: %w", err)
		}
		up, err := uploads.New(cfg.Storage.ImageDir, cfg.Storage.MaxUploadBytes)
		if err != nil {
			return fmt.Errorf("image dir: %w", err)
		}
		for _, img := range images {
			if err := up.Remove(img.Path); err != nil {
				log.Warn("remove image file", slog.String("image_path", img.Path), slog.String("error", err.Error()))
			}
		}
		log.Info("cleared journal", slog.Int("images", len(images)))
	}

	now := time.Now()
	src := seedValue
	if src == 0 {
		src = now.UnixNano()
	}
	trades := seed.Generate(seed.Options{
		Count: seedCount,
		Days:  seedDays,
		Now:   now,
		Rand:  rand.New(rand.NewSource(src)),
	})
	if err := seed.Insert(ctx, j, trades); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d trades into %s\n", len(trades), cfg.Storage.DBPath)
	return nil
}
