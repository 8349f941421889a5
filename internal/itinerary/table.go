// Package itinerary implements the reconciliation engine: loading and
// sorting travel legs, detecting gaps, matching extracted candidates back
// onto gaps, merging, and verifying the result.
package itinerary

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// Columns is the canonical input column order. Extra columns in an input
// file (for example a previously annotated output) are ignored on read.
var Columns = []string{
	"departure_country", "departure_city", "departure_date", "departure_time",
	"arrival_country", "arrival_city", "arrival_date", "arrival_time",
	"notes", "source_file",
}

// LoadStats reports what happened while loading the input table.
type LoadStats struct {
	Legs       int // legs read from the table
	Normalized int // legs whose country fields changed during normalization
	Inversions int // adjacent chronological inversions remaining after sort
}

// Load reads a travel table, normalizes every leg's country fields and
// returns the legs sorted chronologically. The file format is chosen by
// extension: .xlsx is read as a workbook, everything else as CSV.
func Load(path string) ([]model.TravelLeg, LoadStats, error) {
	legs, err := ReadLegs(path)
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{Legs: len(legs)}
	stats.Normalized = NormalizeCountries(legs)

	legs = SortChronologically(legs)
	stats.Inversions = CountInversions(legs)
	if stats.Inversions > 0 {
		zap.L().Warn("itinerary: chronological inversions after sort",
			zap.Int("inversions", stats.Inversions))
	}

	zap.L().Info("itinerary: loaded travel table",
		zap.String("path", path),
		zap.Int("legs", stats.Legs),
		zap.Int("normalized", stats.Normalized))

	return legs, stats, nil
}

// ReadLegs reads a travel table without normalizing or sorting it. Used
// directly when verifying an already-produced output file, where the rows
// must be inspected as written.
func ReadLegs(path string) ([]model.TravelLeg, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([]model.TravelLeg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "table: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("table: %s has no header row", path)
	}

	return legsFromRows(rows[0], rows[1:]), nil
}

func readXLSX(path string) ([]model.TravelLeg, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("table: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("table: %s has no header row", path)
	}

	header := rowToStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}

	return legsFromRows(header, rows), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// legsFromRows maps rows onto TravelLeg fields by header name, so column
// order and extra columns do not matter.
func legsFromRows(header []string, rows [][]string) []model.TravelLeg {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	legs := make([]model.TravelLeg, 0, len(rows))
	for _, row := range rows {
		legs = append(legs, model.TravelLeg{
			DepartureCountry: field(row, "departure_country"),
			DepartureCity:    field(row, "departure_city"),
			DepartureDate:    field(row, "departure_date"),
			DepartureTime:    field(row, "departure_time"),
			ArrivalCountry:   field(row, "arrival_country"),
			ArrivalCity:      field(row, "arrival_city"),
			ArrivalDate:      field(row, "arrival_date"),
			ArrivalTime:      field(row, "arrival_time"),
			Notes:            field(row, "notes"),
			SourceFile:       field(row, "source_file"),
		})
	}
	return legs
}

// NormalizeCountries canonicalizes the departure and arrival country of
// every leg in place. Returns the number of legs that changed. Safe to call
// repeatedly: canonical codes pass through unchanged.
func NormalizeCountries(legs []model.TravelLeg) int {
	changed := 0
	for i := range legs {
		dep := geo.CanonicalCountry(legs[i].DepartureCountry)
		arr := geo.CanonicalCountry(legs[i].ArrivalCountry)
		if dep != legs[i].DepartureCountry || arr != legs[i].ArrivalCountry {
			changed++
		}
		legs[i].DepartureCountry = dep
		legs[i].ArrivalCountry = arr
	}
	return changed
}

// WriteTable sorts the legs chronologically, annotates each row with
// next-leg connection columns and writes the result as CSV.
func WriteTable(path string, legs []model.TravelLeg) error {
	sorted := SortChronologically(legs)
	annotated := Annotate(sorted)

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "table: create %s", path)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := append(append([]string{}, Columns...),
		"next_country_match", "next_city_match", "next_country", "next_city")
	if err := writer.Write(header); err != nil {
		return eris.Wrapf(err, "table: write header to %s", path)
	}

	for _, row := range annotated {
		record := []string{
			row.DepartureCountry, row.DepartureCity, row.DepartureDate, row.DepartureTime,
			row.ArrivalCountry, row.ArrivalCity, row.ArrivalDate, row.ArrivalTime,
			row.Notes, row.SourceFile,
			row.NextCountryMatch, row.NextCityMatch, row.NextCountry, row.NextCity,
		}
		if err := writer.Write(record); err != nil {
			return eris.Wrapf(err, "table: write row to %s", path)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrapf(err, "table: flush %s", path)
	}

	zap.L().Info("itinerary: saved travel table",
		zap.String("path", path),
		zap.Int("legs", len(annotated)))
	return nil
}

// DefaultOutputName returns the timestamped output filename convention,
// e.g. all-travel-20260821-1430.csv.
func DefaultOutputName(now time.Time) string {
	return "all-travel-" + now.Format("20060102-1504") + ".csv"
}
