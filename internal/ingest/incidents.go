// Package ingest reads the flat-file sources and validates their schemas.
// Schema violations are structural faults that fail the run immediately,
// naming the file and field.
package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rescuemap/internal/models"
	"rescuemap/pkg/utils"
)

// Ingest errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptySheet    = errors.New("no data rows")
	ErrBadTimestamp  = errors.New("unparseable timestamp")
	ErrBadNumber     = errors.New("unparseable numeric value")
)

// Incident workbook column headers.
const (
	ColTimestamp = "Incdate"
	ColDetail    = "Incident Detail"
	ColWard      = "Ward"
	ColDistrict  = "District"
)

// Timestamp layouts seen in the incident workbook. excelize returns date
// cells as formatted strings, so both ISO and spreadsheet-display forms
// are tried.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

// ReadIncidents loads the incident workbook. Rows with unparseable
// timestamps are either rejected (fatal) or dropped and counted, per the
// configured policy; dropRejected selects the latter.
func ReadIncidents(path, sheet string, dropRejected bool) ([]models.Incident, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %q in %s: %w", sheet, path, err)
	}

	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("%w: %s sheet %q", ErrEmptySheet, path, sheet)
	}

	cols, err := resolveColumns(rows[0], path, []string{ColTimestamp, ColDetail, ColWard, ColDistrict})
	if err != nil {
		return nil, 0, err
	}

	incidents := make([]models.Incident, 0, len(rows)-1)
	rejected := 0

	for i, row := range rows[1:] {
		raw := cell(row, cols[ColTimestamp])
		if raw == "" {
			// Trailing blank rows are common in exported workbooks.
			if rowEmpty(row) {
				continue
			}
		}

		ts, tsErr := parseTimestamp(raw)
		if tsErr != nil {
			if dropRejected {
				rejected++

				continue
			}

			return nil, 0, fmt.Errorf("%w: %s field %q row %d: %q",
				ErrBadTimestamp, path, ColTimestamp, i+2, utils.TruncateString(raw, 40))
		}

		incidents = append(incidents, models.Incident{
			Timestamp: ts,
			Detail:    utils.NormalizeWhitespace(cell(row, cols[ColDetail])),
			RawWard:   utils.NormalizeWhitespace(cell(row, cols[ColWard])),
			District:  utils.NormalizeWhitespace(cell(row, cols[ColDistrict])),
		})
	}

	return incidents, rejected, nil
}

// resolveColumns maps required header names to column indexes, matching
// case-insensitively after whitespace cleanup.
func resolveColumns(header []string, path string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(required))

	for idx, name := range header {
		name = utils.NormalizeWhitespace(name)
		for _, want := range required {
			if strings.EqualFold(name, want) {
				cols[want] = idx
			}
		}
	}

	for _, want := range required {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s field %q", ErrMissingColumn, path, want)
		}
	}

	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}

	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrBadTimestamp)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
}
