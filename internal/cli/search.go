package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/search"
	"github.com/SeamusWaldron/bitcube/internal/storage"
)

var (
	searchThreads int
	searchFindAll bool
	searchOutDir  string
	searchTUI     bool

	assembleLimit int

	orbitsRelaxed bool
	orbitsBases   []int
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Search by stacking precomputed layers",
	Long: `Generate valid layers, then stack four of them (plus their complements)
into cubes whose every line is balanced.

Examples:
  bitcube assemble --candidates 6 --find-all
  bitcube assemble --threads 8 --tui`,
	RunE: runAssemble,
}

var orbitsCmd = &cobra.Command{
	Use:   "orbits",
	Short: "Search by stacking rotation orbits",
	Long: `Stack eight rotation orbits, one per layer, and keep stacks whose Z lines
all balance. The default pool is the 32 orbits passing the parity filter.

Examples:
  bitcube orbits --find-all
  bitcube orbits --relaxed --threads 16
  bitcube orbits --bases 15,23,27,232,228,178,105,212 --find-all`,
	RunE: runOrbits,
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(orbitsCmd)

	for _, c := range []*cobra.Command{assembleCmd, orbitsCmd} {
		c.Flags().IntVarP(&searchThreads, "threads", "t", 0, "Worker count (default: config or CPU count)")
		c.Flags().BoolVar(&searchFindAll, "find-all", false, "Keep searching after the first discovery")
		c.Flags().StringVarP(&searchOutDir, "out", "o", "", "Directory for per-discovery text reports")
		c.Flags().BoolVar(&searchTUI, "tui", false, "Show a live progress view")
	}

	assembleCmd.Flags().IntVar(&assembleLimit, "candidates", 0, "Use only the first N candidate values (0 = all)")

	orbitsCmd.Flags().BoolVar(&orbitsRelaxed, "relaxed", false, "Use all 64 valid orbits instead of the filtered pool")
	orbitsCmd.Flags().IntSliceVar(&orbitsBases, "bases", nil, "Explicit orbit bases to search")
}

func runAssemble(cmd *cobra.Command, args []string) error {
	g := newGenerator(assembleLimit)
	layers := g.Generate()
	logger.Info("layers generated",
		zap.Int("candidates", len(g.Candidates())),
		zap.Int("layers", len(layers)),
		zap.Uint64("attempts", g.Attempts()))

	return executeSearch(cmd, search.StrategyLayers, len(layers), search.EstimateStackings(len(layers)),
		func(opts ...search.Option) searchRunner {
			return search.NewAssembler(layers, opts...)
		})
}

func runOrbits(cmd *cobra.Command, args []string) error {
	pool, err := orbitPool()
	if err != nil {
		return err
	}

	return executeSearch(cmd, search.StrategyOrbits, len(pool), search.EstimateVolume(len(pool)),
		func(opts ...search.Option) searchRunner {
			return search.NewSearcher(pool, opts...)
		})
}

func orbitPool() ([]balanced.Orbit, error) {
	if len(orbitsBases) > 0 {
		pool := make([]balanced.Orbit, 0, len(orbitsBases))
		for _, b := range orbitsBases {
			if b < 0 || b > 255 {
				return nil, fmt.Errorf("orbit base %d is not a byte", b)
			}
			o, ok := balanced.NewOrbit(byte(b))
			if !ok {
				return nil, fmt.Errorf("%d is not the base of a valid orbit", b)
			}
			pool = append(pool, o)
		}
		return pool, nil
	}

	d := balanced.New()
	if orbitsRelaxed {
		return d.Orbits(), nil
	}
	return d.Filtered(), nil
}

// executeSearch records a run, drives the search, and prints the outcome.
func executeSearch(cmd *cobra.Command, strategy search.Strategy, poolSize int, estimate uint64,
	build func(opts ...search.Option) searchRunner) error {
	out := cmd.OutOrStdout()

	threads := cfg.Threads
	if cmd.Flags().Changed("threads") {
		threads = searchThreads
	}
	if threads <= 0 {
		threads = 1
	}
	findAll := cfg.FindAll
	if cmd.Flags().Changed("find-all") {
		findAll = searchFindAll
	}
	outDir := cfg.OutputDir
	if searchOutDir != "" {
		outDir = searchOutDir
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs := storage.NewRunRepository(db)
	runID, err := runs.Create(storage.RunParams{
		Strategy:   string(strategy),
		FindAll:    findAll,
		Threads:    threads,
		PoolSize:   poolSize,
		Estimated:  estimate,
		AppVersion: version,
	})
	if err != nil {
		return err
	}

	reports, err := storage.NewReportWriter(filepath.Join(outDir, runID))
	if err != nil {
		return err
	}

	runner := build(
		search.WithThreads(threads),
		search.WithFindAll(findAll),
		search.WithSink(search.MultiSink{storage.NewCubeSink(db, runID), reports}),
		search.WithLogger(logger.With(zap.String("run_id", runID))),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var stats search.Stats
	var runErr error
	if searchTUI {
		stats, runErr = runWithTUI(ctx, runner, runID)
	} else {
		stats, runErr = runWithLogging(ctx, runner, cfg.ProgressInterval)
	}

	if err := runs.Finish(runID, stats.Found, stats.Checked); err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render("Search complete"))
	fmt.Fprintf(out, "Run:       %s\n", runID)
	fmt.Fprintln(out, renderStats(stats))
	if stats.Stopped {
		fmt.Fprintln(out, statusStyle.Render("Stopped early"))
	}
	fmt.Fprintln(out)

	if first, ok := runner.First(); ok {
		fmt.Fprintln(out, labelStyle.Render(fmt.Sprintf("Discovery #%d", first.ID)))
		fmt.Fprintln(out, renderCube(&first.Cube))
		fmt.Fprintln(out, renderReport(first.Report))
		fmt.Fprintf(out, "Reports:   %s\n", filepath.Join(outDir, runID))
	} else {
		fmt.Fprintln(out, "No cube found")
	}

	if runErr != nil {
		return fmt.Errorf("search finished with errors: %w", runErr)
	}
	return nil
}
