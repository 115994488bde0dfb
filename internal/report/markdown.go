// Package report renders the unified table and quality findings as aligned
// markdown for the slide-deck authors.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"rescuemap/internal/classify"
	"rescuemap/internal/models"
	"rescuemap/internal/trend"
)

// RenderUnified renders the per-ward table followed by the district rollup.
func RenderUnified(table *models.UnifiedTable) string {
	var sb strings.Builder

	sb.WriteString("## Incidents by ward\n\n")

	rows := [][]string{{"Ward", "District", "Total Incidents", "Population (Census 2021)", "Incidents per 10,000"}}
	for _, w := range table.Wards {
		rows = append(rows, []string{
			w.Ward,
			w.District,
			fmt.Sprintf("%d", w.TotalIncidents),
			formatCount(w.Population),
			formatRate(w.IncidentsPer10k),
		})
	}

	sb.WriteString(renderTable(rows))

	sb.WriteString("\n## Incidents by district\n\n")

	rows = [][]string{{"District", "Total Incidents", "Population (Census 2021)", "Incidents per 10,000"}}
	for _, d := range table.Districts {
		rows = append(rows, []string{
			d.District,
			fmt.Sprintf("%d", d.TotalIncidents),
			formatCount(d.Population),
			formatRate(d.IncidentsPer10k),
		})
	}

	sb.WriteString(renderTable(rows))

	return sb.String()
}

// RenderByYear renders per-ward incident counts broken down by financial
// year, the shape the choropleth series are built from.
func RenderByYear(table *models.UnifiedTable) string {
	years := make(map[int]bool)

	for _, w := range table.Wards {
		for fy := range w.ByFinancialYear {
			years[fy] = true
		}
	}

	sorted := make([]int, 0, len(years))
	for fy := range years {
		sorted = append(sorted, fy)
	}

	sort.Ints(sorted)

	header := []string{"Ward"}
	for _, fy := range sorted {
		header = append(header, fmt.Sprintf("FY%d", fy))
	}

	rows := [][]string{header}

	for _, w := range table.Wards {
		row := []string{w.Ward}
		for _, fy := range sorted {
			row = append(row, fmt.Sprintf("%d", w.ByFinancialYear[fy]))
		}

		rows = append(rows, row)
	}

	return "## Incidents by ward and financial year\n\n" + renderTable(rows)
}

// RenderQuality renders the data-quality findings of a run.
func RenderQuality(report *models.QualityReport) string {
	var sb strings.Builder

	sb.WriteString("## Data quality\n\n")

	if !report.HasFaults() {
		sb.WriteString("No data-quality faults found.\n")

		return sb.String()
	}

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}

		sb.WriteString(fmt.Sprintf("### %s\n\n", title))
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}

		sb.WriteString("\n")
	}

	writeList("Unresolved names", report.UnresolvedNames)
	writeList("Missing geometry", report.MissingGeometry)
	writeList("Missing population", report.MissingPopulation)

	if report.RejectedTimestamps > 0 {
		sb.WriteString(fmt.Sprintf("Rejected rows with unparseable timestamps: %d\n", report.RejectedTimestamps))
	}

	return sb.String()
}

// RenderNgrams renders the top n-grams from the incident detail text.
func RenderNgrams(counts []classify.NgramCount, limit int) string {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	rows := [][]string{{"Phrase", "Count"}}
	for _, c := range counts {
		rows = append(rows, []string{c.Ngram, fmt.Sprintf("%d", c.Count)})
	}

	return "## Common phrases\n\n" + renderTable(rows)
}

// RenderTrend renders a fitted model summary and its forecast values.
func RenderTrend(dec *trend.Decomposition) string {
	var sb strings.Builder

	sb.WriteString("## Trend model\n\n")
	sb.WriteString(fmt.Sprintf("%s%s, AICc %.2f (%d models evaluated)\n\n",
		dec.ModelName, dec.Order, dec.AICc, dec.ModelsEvaluated))

	rows := [][]string{{"Step", "Forecast"}}
	for i, f := range dec.Forecasts {
		rows = append(rows, []string{fmt.Sprintf("+%d", i+1), fmt.Sprintf("%.1f", f)})
	}

	sb.WriteString(renderTable(rows))

	return sb.String()
}

func formatCount(v *int) string {
	if v == nil {
		return "-"
	}

	return fmt.Sprintf("%d", *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return "-"
	}

	return fmt.Sprintf("%.2f", *v)
}

// renderTable builds an aligned markdown table with a header row, padding
// cells by display width.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colCount := len(rows[0])
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Separator needs at least 3 dashes.
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			padding := colWidths[j] - runewidth.StringWidth(content)
			if padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(rows[0])

	sb.WriteString("|")

	for j := 0; j < colCount; j++ {
		sb.WriteString(" " + strings.Repeat("-", colWidths[j]) + " |")
	}

	sb.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}
