package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lane-analytics/backend/internal/models"
)

const barWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	metricStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type rankedRow struct {
	label string
	count int
}

func renderReport(name string, r *models.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lane frequency report: "+name) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("engine %s, top %d, %d ms", r.Engine, r.TopN, r.ProcessingTimeMs)) + "\n\n")

	b.WriteString(fmt.Sprintf("Total shipments %s   Unique origins %s   Unique destinations %s\n",
		metricStyle.Render(fmt.Sprint(r.Summary.TotalRows)),
		metricStyle.Render(fmt.Sprint(r.Summary.DistinctOrigins)),
		metricStyle.Render(fmt.Sprint(r.Summary.DistinctDestinations)),
	))
	if r.Summary.TotalRows == 0 {
		b.WriteString("\n" + warningStyle.Render("No shipments with a delivery time.") + "\n")
		return b.String()
	}

	b.WriteString(renderRanking("Top origins", countRows(r.TopOrigins)))
	b.WriteString(renderRanking("Top destinations", countRows(r.TopDestinations)))
	b.WriteString(renderRanking("Top lanes", laneRows(r.TopLanes)))
	if r.Matrix != nil {
		b.WriteString(renderMatrix(r.Matrix))
	}
	return b.String()
}

func countRows(entries []models.CountEntry) []rankedRow {
	rows := make([]rankedRow, len(entries))
	for i, e := range entries {
		rows[i] = rankedRow{label: e.Key, count: e.Count}
	}
	return rows
}

func laneRows(entries []models.LaneEntry) []rankedRow {
	rows := make([]rankedRow, len(entries))
	for i, e := range entries {
		rows[i] = rankedRow{label: e.Label, count: e.Count}
	}
	return rows
}

// renderRanking draws one horizontal bar per row, scaled to the largest count.
func renderRanking(title string, rows []rankedRow) string {
	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render(title) + "\n")

	labelWidth, peak := 0, 0
	for _, r := range rows {
		if w := lipgloss.Width(r.label); w > labelWidth {
			labelWidth = w
		}
		if r.count > peak {
			peak = r.count
		}
	}
	for _, r := range rows {
		n := 1
		if peak > 0 {
			n = r.count * barWidth / peak
		}
		if n < 1 {
			n = 1
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.label))
		b.WriteString(fmt.Sprintf("  %s%s %s %d\n", r.label, pad, barStyle.Render(strings.Repeat("█", n)), r.count))
	}
	return b.String()
}

func renderMatrix(m *models.LaneMatrix) string {
	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("Lane matrix") + mutedStyle.Render(" (rows: origin, columns: destination)") + "\n")

	width := 1
	for _, s := range append(append([]string{}, m.Origins...), m.Destinations...) {
		if len(s) > width {
			width = len(s)
		}
	}
	for _, row := range m.Counts {
		for _, c := range row {
			if w := len(fmt.Sprint(c)); w > width {
				width = w
			}
		}
	}

	cell := func(s string) string { return fmt.Sprintf(" %*s", width, s) }
	b.WriteString("  " + cell(""))
	for _, d := range m.Destinations {
		b.WriteString(cell(d))
	}
	b.WriteString("\n")
	for i, o := range m.Origins {
		b.WriteString("  " + cell(o))
		for _, c := range m.Counts[i] {
			if c == 0 {
				b.WriteString(mutedStyle.Render(cell(".")))
				continue
			}
			b.WriteString(cell(fmt.Sprint(c)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
