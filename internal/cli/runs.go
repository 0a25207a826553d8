package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/bitcube/internal/storage"
)

var (
	runsLimit    int
	showLast     bool
	showCubes    bool
	showMaxCubes int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded search runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run_id]",
	Short: "Show a run and its discoveries",
	Long: `Show the counters of a run and the verification results of its
discoveries.

Examples:
  bitcube runs show --last
  bitcube runs show <run_id> --cubes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run_id>",
	Short: "Delete a run and its discoveries",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)

	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show")
	runsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent run")
	runsShowCmd.Flags().BoolVar(&showCubes, "cubes", false, "Render discovered cubes")
	runsShowCmd.Flags().IntVar(&showMaxCubes, "max", 20, "Maximum discoveries to show (0 = all)")
}

func runDuration(r storage.Run) string {
	if r.EndedAt == nil {
		return "-"
	}
	return formatDuration(r.EndedAt.Sub(r.StartedAt))
}

func runRunsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := storage.NewRunRepository(db).List(runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		fmt.Fprintln(out, "Start one with: bitcube orbits")
		return nil
	}

	fmt.Fprintf(out, "Recent runs (showing %d):\n", len(runs))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-36s  %-20s  %-8s  %-5s  %-10s  %-8s  %s\n", "ID", "Started", "Strategy", "Mode", "Duration", "Found", "Checked")
	fmt.Fprintln(out, "------------------------------------  --------------------  --------  -----  ----------  --------  -------")

	for _, r := range runs {
		mode := "first"
		if r.FindAll {
			mode = "all"
		}
		status := ""
		if r.EndedAt == nil {
			status = " (unfinished)"
		}
		fmt.Fprintf(out, "%-36s  %-20s  %-8s  %-5s  %-10s  %-8d  %s%s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Strategy,
			mode,
			runDuration(r),
			r.Found,
			formatCount(r.Checked),
			status,
		)
	}

	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewRunRepository(db)

	var run *storage.Run
	switch {
	case showLast:
		run, err = repo.GetLast()
		if errors.Is(err, storage.ErrRunNotFound) {
			return fmt.Errorf("no runs found")
		}
	case len(args) > 0:
		run, err = repo.Get(args[0])
	default:
		return fmt.Errorf("please provide a run ID or use --last")
	}
	if err != nil {
		return err
	}

	discoveries := storage.NewDiscoveryRepository(db)
	total, perfect, err := discoveries.Count(run.RunID)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render("Run Details"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "ID:        %s\n", run.RunID)
	fmt.Fprintf(out, "Strategy:  %s\n", run.Strategy)
	fmt.Fprintf(out, "Find all:  %t\n", run.FindAll)
	fmt.Fprintf(out, "Threads:   %d\n", run.Threads)
	fmt.Fprintf(out, "Pool:      %d\n", run.PoolSize)
	fmt.Fprintf(out, "Estimate:  %s\n", formatCount(int64(run.Estimated)))
	fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.EndedAt != nil {
		fmt.Fprintf(out, "Ended:     %s (%s)\n", run.EndedAt.Local().Format(time.DateTime), runDuration(*run))
	}
	fmt.Fprintf(out, "Checked:   %s\n", formatCount(run.Checked))
	fmt.Fprintf(out, "Found:     %d (%d stored, %d perfect)\n", run.Found, total, perfect)

	if total == 0 {
		return nil
	}

	list, err := discoveries.List(run.RunID, showMaxCubes)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, labelStyle.Render("Discoveries"))
	for _, d := range list {
		verdict := okStyle.Render("perfect")
		if !d.Perfect {
			verdict = errorStyle.Render(fmt.Sprintf("invalid: %d failures, %d repeats",
				len(d.Report.Failures), len(d.Report.Duplicates)))
		}
		source := ""
		switch {
		case len(d.OrbitBases) > 0:
			source = "bases " + joinBytes(d.OrbitBases)
		case len(d.LayerIdx) > 0:
			source = fmt.Sprintf("layers %v", d.LayerIdx)
		}
		fmt.Fprintf(out, "#%-6d %s  %s\n", d.DiscoveryID, verdict, statusStyle.Render(source))
		if showCubes {
			fmt.Fprintln(out, renderCube(&d.Cube))
		}
	}
	if len(list) < total {
		fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("... %d more (use --max 0 to show all)", total-len(list))))
	}

	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewRunRepository(db).Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}
