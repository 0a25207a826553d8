package cli

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/config"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

// searchRunner is satisfied by both search strategies.
type searchRunner interface {
	Run(ctx context.Context) (search.Stats, error)
	Progress() search.Stats
	First() (search.Discovery, bool)
}

type searchResult struct {
	stats search.Stats
	err   error
}

// Messages
type progressTickMsg time.Time
type searchDoneMsg searchResult

// progressModel polls a running search and shows its counters.
type progressModel struct {
	source searchRunner
	runID  string
	cancel context.CancelFunc

	stats    search.Stats
	first    *search.Discovery
	done     bool
	quitting bool
	result   searchResult
}

func newProgressModel(r searchRunner, runID string, cancel context.CancelFunc) *progressModel {
	return &progressModel{source: r, runID: runID, cancel: cancel}
}

func (m *progressModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *progressModel) tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			m.quitting = true
			m.cancel()
		}

	case progressTickMsg:
		m.refresh()
		if !m.done {
			return m, m.tickCmd()
		}

	case searchDoneMsg:
		m.done = true
		m.result = searchResult(msg)
		m.stats = msg.stats
		m.refresh()
		return m, tea.Quit
	}

	return m, nil
}

func (m *progressModel) refresh() {
	if !m.done {
		m.stats = m.source.Progress()
	}
	if m.first == nil {
		if d, ok := m.source.First(); ok {
			m.first = &d
		}
	}
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bitcube search"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("Run " + m.runID))
	b.WriteString("\n\n")
	b.WriteString(renderStats(m.stats))
	b.WriteString("\n\n")

	if m.first != nil {
		b.WriteString(labelStyle.Render("First discovery"))
		b.WriteString("\n")
		b.WriteString(renderCube(&m.first.Cube))
		b.WriteString("\n")
		b.WriteString(renderReport(m.first.Report))
		b.WriteString("\n\n")
	}

	switch {
	case m.done:
		b.WriteString(statusStyle.Render("Search finished"))
	case m.quitting:
		b.WriteString(errorStyle.Render("Stopping..."))
	default:
		b.WriteString(helpStyle.Render("Keys: q=stop"))
	}
	b.WriteString("\n")

	return b.String()
}

// runWithTUI drives r under a bubbletea progress view.
func runWithTUI(ctx context.Context, r searchRunner, runID string) (search.Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newProgressModel(r, runID, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan searchResult, 1)
	go func() {
		stats, err := r.Run(ctx)
		res := searchResult{stats: stats, err: err}
		done <- res
		p.Send(searchDoneMsg(res))
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return search.Stats{}, err
	}

	res := <-done
	return res.stats, res.err
}

// runWithLogging drives r and logs a progress snapshot every interval.
func runWithLogging(ctx context.Context, r searchRunner, interval time.Duration) (search.Stats, error) {
	if interval <= 0 {
		interval = config.Default().ProgressInterval
	}
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s := r.Progress()
				logger.Info("search progress",
					zap.String("strategy", string(s.Strategy)),
					zap.Int("completed_roots", s.CompletedRoots),
					zap.Int("roots", s.Roots),
					zap.Int64("checked", s.Checked),
					zap.Int64("found", s.Found),
					zap.Duration("eta", s.ETA()))
			}
		}
	}()

	stats, err := r.Run(ctx)
	close(done)
	return stats, err
}
