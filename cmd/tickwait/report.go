package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// writeJSON writes the report as indented JSON.
func writeJSON(w io.Writer, r *Report) error {
	return json.MarshalWrite(w, r, jsontext.WithIndent("  "))
}

// resultsTable renders the per-strategy statistics.
func resultsTable(r *Report) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
		Headers("STRATEGY", "OK", "FAIL", "MIN", "P50", "P99", "MAX", "OVERSHOOT", "RELAX/RUN")

	for _, s := range r.Results {
		t.Row(
			s.Strategy,
			strconv.Itoa(s.Completed),
			strconv.Itoa(s.Failures),
			fmtNs(s.MinNs),
			fmtNs(s.P50Ns),
			fmtNs(s.P99Ns),
			fmtNs(s.MaxNs),
			fmtNs(s.OvershootNs),
			fmt.Sprintf("%.1f", s.RelaxPerRun),
		)
	}
	return t
}

// writeText writes a human-readable summary of the report.
func writeText(w io.Writer, r *Report) error {
	status := ""
	if r.Canceled {
		status = " (canceled)"
	}
	_, err := fmt.Fprintf(w, "run %s on %s: %d × %s%s\n%s\n",
		r.ID, r.Platform, r.Runs, time.Duration(r.RequestedNs), status, resultsTable(r).String())
	return err
}

func fmtNs(ns int64) string {
	return time.Duration(ns).String()
}
