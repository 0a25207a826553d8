package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
)

var domainShowOrbits bool

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Show the balanced-number domain",
	Long: `Print the 70 balanced bytes, the 35-value upper set used for layer rows,
and the rotation orbits available to the orbit searcher.`,
	RunE: runDomain,
}

func init() {
	rootCmd.AddCommand(domainCmd)
	domainCmd.Flags().BoolVar(&domainShowOrbits, "orbits", false, "List every valid orbit")
}

func runDomain(cmd *cobra.Command, args []string) error {
	d := balanced.New()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Balanced-number domain"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Balanced bytes:  %d\n", len(d.All()))
	fmt.Fprintf(out, "Upper set (%d):  %s\n", len(d.Upper()), joinBytes(d.Upper()))
	fmt.Fprintf(out, "Valid orbits:    %d in %d rotation classes\n", len(d.Orbits()), rotationClasses(d.Orbits()))
	fmt.Fprintf(out, "Filtered pool:   %d in %d rotation classes\n", len(d.Filtered()), rotationClasses(d.Filtered()))

	if domainShowOrbits {
		fmt.Fprintln(out)
		printOrbits(out, d)
	}
	return nil
}

func printOrbits(out io.Writer, d *balanced.Domain) {
	fmt.Fprintf(out, "%-5s  %-31s  %s\n", "Base", "Values", "Filter")
	fmt.Fprintln(out, "-----  -------------------------------  ------")
	for _, o := range d.Orbits() {
		mark := ""
		if balanced.PassesFilter(o.Values) {
			mark = okStyle.Render("✓")
		}
		fmt.Fprintf(out, "%-5d  %-31s  %s\n", o.Base, joinBytes(o.Values[:]), mark)
	}
}

// rotationClasses counts distinct value sets among orbits.
func rotationClasses(orbits []balanced.Orbit) int {
	seen := make(map[byte]bool)
	for _, o := range orbits {
		seen[slices.Min(o.Values[:])] = true
	}
	return len(seen)
}

func joinBytes(vals []byte) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
