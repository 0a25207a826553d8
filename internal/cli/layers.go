package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/layer"
)

var (
	layersLimit int
	layersList  bool
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Enumerate valid layers",
	Long: `Enumerate every valid layer whose first four rows are distinct upper-set
values and whose last four rows are their complements.

The full upper set yields over a million layers. Use --candidates to
restrict the pool to its first N values.

Examples:
  bitcube layers --candidates 6 --list
  bitcube layers`,
	RunE: runLayers,
}

func init() {
	rootCmd.AddCommand(layersCmd)
	layersCmd.Flags().IntVar(&layersLimit, "candidates", 0, "Use only the first N candidate values (0 = all)")
	layersCmd.Flags().BoolVar(&layersList, "list", false, "Print every layer")
}

// newGenerator builds a layer generator from the config pool and limit.
func newGenerator(limit int) *layer.Generator {
	var opts []layer.Option
	if pool := cfg.CandidateBytes(); pool != nil {
		opts = append(opts, layer.WithCandidates(pool))
	}
	opts = append(opts, layer.WithCandidateLimit(limit))
	return layer.NewGenerator(balanced.New(), opts...)
}

func runLayers(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	g := newGenerator(layersLimit)

	start := time.Now()
	n := g.Walk(func(l layer.Layer) {
		if layersList {
			fmt.Fprintln(out, joinBytes(l.Rows[:]))
		}
	})
	elapsed := time.Since(start)

	logger.Debug("layer generation complete",
		zap.Int("candidates", len(g.Candidates())),
		zap.Int("layers", n),
		zap.Uint64("attempts", g.Attempts()),
		zap.Duration("elapsed", elapsed))

	fmt.Fprintf(out, "Candidates: %d\n", len(g.Candidates()))
	fmt.Fprintf(out, "Layers:     %s\n", formatCount(int64(n)))
	fmt.Fprintf(out, "Attempts:   %s\n", formatCount(int64(g.Attempts())))
	fmt.Fprintf(out, "Elapsed:    %s\n", formatDuration(elapsed))
	return nil
}
