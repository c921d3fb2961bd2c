package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vvka-141/starload/pkg/starload"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderPlan prints the statements of a plan in execution order.
// With withSQL set the full statement text follows the table.
func RenderPlan(w io.Writer, plan []starload.Statement, withSQL bool) {
	if len(plan) == 0 {
		fmt.Fprintln(w, "(empty plan)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Phase", "Statement", "Table"})
	for i, s := range plan {
		t.AppendRow(table.Row{i + 1, s.Phase, s.Name, s.Table})
	}
	t.Render()

	if !withSQL {
		return
	}
	for _, s := range plan {
		fmt.Fprintf(w, "\n-- %s\n%s\n", s.Name, strings.TrimSpace(s.SQL))
	}
}

// RenderReport prints the executed statements and the run summary.
func RenderReport(w io.Writer, report *starload.RunReport) {
	if report == nil {
		return
	}
	if len(report.Results) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Statement", "Rows", "Duration"})
		for _, r := range report.Results {
			t.AppendRow(table.Row{r.Statement.Name, r.RowsAffected, r.Duration.Round(time.Millisecond)})
		}
		t.Render()
	}

	fmt.Fprintf(w, "Run %s: %d/%d statements on %s (%s) in %s\n",
		report.RunID, len(report.Results), len(report.Plan), report.Database, report.Dialect,
		report.Duration.Round(time.Millisecond))

	if len(report.Counts) > 0 {
		RenderCounts(w, report.Counts)
	}
}

// RenderCounts prints the row count of each table.
func RenderCounts(w io.Writer, counts []starload.TableCount) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Table", "Rows"})
	var total int64
	for _, c := range counts {
		t.AppendRow(table.Row{c.Table, c.Rows})
		total += c.Rows
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
