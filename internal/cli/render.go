package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	oneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	zeroStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	layerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// renderLayer draws one layer as a bordered block of bit cells.
func renderLayer(c *cube.Cube, z int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("Z=%d", z)))
	for y := 0; y < 8; y++ {
		b.WriteByte('\n')
		for x := 0; x < 8; x++ {
			if c.Bit(x, y, z) == 1 {
				b.WriteString(oneStyle.Render("█"))
			} else {
				b.WriteString(zeroStyle.Render("·"))
			}
		}
		b.WriteString(statusStyle.Render(fmt.Sprintf(" %3d", c.Data[z][y])))
	}
	return layerBox.Render(b.String())
}

// renderCube lays the eight layers out in two rows of four.
func renderCube(c *cube.Cube) string {
	var rows []string
	for start := 0; start < 8; start += 4 {
		blocks := make([]string, 0, 4)
		for z := start; z < start+4; z++ {
			blocks = append(blocks, renderLayer(c, z))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func check(ok bool) string {
	if ok {
		return okStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}

// renderReport summarises a verification report.
func renderReport(r cube.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ones: %d  Zeros: %d\n", r.Ones, r.Zeros)
	fmt.Fprintf(&b, "X %s  Y %s  Z %s  distinct rows %s\n",
		check(r.XBalanced), check(r.YBalanced), check(r.ZBalanced), check(r.UniqueRows))
	if r.Perfect() {
		b.WriteString(okStyle.Render("PERFECT CUBE"))
	} else {
		b.WriteString(errorStyle.Render(fmt.Sprintf("INVALID (%d line failures, %d repeated values)",
			len(r.Failures), len(r.Duplicates))))
	}
	return b.String()
}

// renderStats formats a progress snapshot as a few lines of text.
func renderStats(s search.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategy:  %s\n", s.Strategy)
	fmt.Fprintf(&b, "Roots:     %d / %d (%.1f%%)\n", s.CompletedRoots, s.Roots, s.Percent())
	fmt.Fprintf(&b, "Checked:   %s (%.0f/s)\n", formatCount(s.Checked), s.Rate())
	fmt.Fprintf(&b, "Found:     %s\n", formatCount(s.Found))
	fmt.Fprintf(&b, "Elapsed:   %s", formatDuration(s.Elapsed))
	if eta := s.ETA(); eta > 0 {
		fmt.Fprintf(&b, "  ETA: %s", formatDuration(eta))
	}
	return b.String()
}
