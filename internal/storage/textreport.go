package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SeamusWaldron/bitcube/internal/search"
)

// ReportWriter writes one PerfectCube_<id>.txt file per discovery.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates dir if needed and returns a writer into it.
func NewReportWriter(dir string) (*ReportWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &ReportWriter{dir: dir}, nil
}

// Path returns the report file path for a discovery ID.
func (w *ReportWriter) Path(id int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("PerfectCube_%d.txt", id))
}

// Save implements search.Sink.
func (w *ReportWriter) Save(d search.Discovery) error {
	f, err := os.Create(w.Path(d.ID))
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteReport(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func yesNo(ok bool) string {
	if ok {
		return "✓ YES"
	}
	return "✗ NO"
}

// WriteReport renders the verification block, any failures and the
// layer dump of d.
func WriteReport(w io.Writer, d search.Discovery) error {
	rep := d.Report
	var b strings.Builder

	fmt.Fprintf(&b, "=== PERFECT BIT CUBE #%d ===\n\n", d.ID)
	b.WriteString("VERIFICATION RESULTS:\n")
	b.WriteString("====================\n")
	fmt.Fprintf(&b, "Total 1s: %d (should be 256) %s\n", rep.Ones, mark(rep.Ones == 256))
	fmt.Fprintf(&b, "Total 0s: %d (should be 256) %s\n", rep.Zeros, mark(rep.Zeros == 256))
	fmt.Fprintf(&b, "All X-axis lines balanced: %s\n", yesNo(rep.XBalanced))
	fmt.Fprintf(&b, "All Y-axis lines balanced: %s\n", yesNo(rep.YBalanced))
	fmt.Fprintf(&b, "All Z-axis lines balanced: %s\n", yesNo(rep.ZBalanced))
	fmt.Fprintf(&b, "All row values distinct: %s\n", yesNo(rep.UniqueRows))
	if rep.Perfect() {
		b.WriteString("VERDICT: ✓✓✓ PERFECT CUBE ✓✓✓\n\n")
	} else {
		b.WriteString("VERDICT: ✗ INVALID\n\n")
	}

	if len(rep.Failures) > 0 || len(rep.Duplicates) > 0 {
		b.WriteString("ERRORS:\n")
		for _, f := range rep.Failures {
			b.WriteString(f.String())
			b.WriteByte('\n')
		}
		for _, dup := range rep.Duplicates {
			fmt.Fprintf(&b, "Value %d used %d times\n", dup.Value, dup.Count)
		}
		b.WriteByte('\n')
	}

	if len(d.Orbits) > 0 {
		for i, o := range d.Orbits {
			vals := make([]string, len(o.Values))
			for j, v := range o.Values {
				vals[j] = fmt.Sprint(v)
			}
			fmt.Fprintf(&b, "Set %d (base: %d): %s\n", i, o.Base, strings.Join(vals, " "))
		}
		b.WriteByte('\n')
	}

	b.WriteString(d.Cube.String())
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var _ search.Sink = (*ReportWriter)(nil)
