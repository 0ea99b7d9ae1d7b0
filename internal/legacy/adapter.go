// Package legacy converts rows exported from the historical spreadsheet into
// canonical domain.TripRecord values.
//
// The spreadsheet's header names drifted across years of hand-edited
// revisions: the empty-basket column appears as both "空籃" and "空籃回收",
// dates use both "-" and "/" separators, and older rows are missing whole
// columns. Rather than spreading substring heuristics through the aggregation
// code, all of that tolerance lives here, at the import boundary: one mapping
// from every known header alias onto the canonical record, with unresolvable
// numeric fields defaulting to zero.
package legacy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ycliang/transport-report/internal/domain"
)

// Row is one exported spreadsheet row, keyed by (possibly legacy) header name.
// Header names are trimmed before matching; cell values stay as-is until
// coercion.
type Row map[string]string

// fieldAliases maps each canonical field to every header name it has carried,
// ordered newest first. Resolution tries an exact header match for each alias,
// then falls back to a header that contains the alias as a substring (the
// historical sheets sometimes suffixed units or notes onto the header).
var fieldAliases = map[string][]string{
	"driver":           {"司機", "填報人"},
	"date":             {"日期", "運送日期"},
	"start_time":       {"上班時間"},
	"end_time":         {"下班時間"},
	"route":            {"路線別", "路線"},
	"odometer_start":   {"里程(起)", "出車前里程"},
	"odometer_end":     {"里程(迄)", "收車後里程"},
	"distance":         {"實際里程"},
	"pallets_sent":     {"送板數"},
	"pallets_received": {"收板數"},
	"pallets_total":    {"合計收送板數", "合計板數"},
	"empty_baskets":    {"空籃回收", "空籃數", "空籃"},
	"empty_pallets":    {"空板回收", "空板數", "空板"},
	"customer_count":   {"配送家數", "家數"},
	"remark":           {"備註"},
}

// RowError records why one row of a batch could not be converted.
// A bad row never fails the whole batch.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

// ConvertAll converts a batch of legacy rows, collecting per-row errors for
// the rows whose identity fields (driver, date, route) cannot be resolved.
// The returned records slice holds only the convertible rows, in input order.
func ConvertAll(rows []Row) ([]domain.TripRecord, []RowError) {
	records := make([]domain.TripRecord, 0, len(rows))
	var errs []RowError
	for i, row := range rows {
		rec, err := Convert(row)
		if err != nil {
			errs = append(errs, RowError{Index: i, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

// Convert maps a single legacy row onto a canonical TripRecord.
//
// Identity fields (driver, date, route) are required; a row missing any of
// them is rejected. Every numeric field coerces missing or unparseable cells
// to zero. Distance and pallet totals are re-derived from their source
// columns when both are present — the stored derived columns are advisory
// only, since old revisions of the form computed them inconsistently.
func Convert(row Row) (domain.TripRecord, error) {
	get := func(field string) (string, bool) { return resolve(row, field) }

	driver, ok := get("driver")
	if !ok || strings.TrimSpace(driver) == "" {
		return domain.TripRecord{}, fmt.Errorf("driver column missing")
	}
	rawDate, ok := get("date")
	if !ok {
		return domain.TripRecord{}, fmt.Errorf("date column missing")
	}
	tripDate, err := ParseDate(rawDate)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("date %q: %w", rawDate, err)
	}
	route, ok := get("route")
	if !ok || strings.TrimSpace(route) == "" {
		return domain.TripRecord{}, fmt.Errorf("route column missing")
	}

	num := func(field string) int {
		v, _ := get(field)
		return coerceInt(v)
	}

	rec := domain.TripRecord{
		Driver:          strings.TrimSpace(driver),
		TripDate:        tripDate,
		Route:           strings.TrimSpace(route),
		OdometerStart:   num("odometer_start"),
		OdometerEnd:     num("odometer_end"),
		Distance:        num("distance"),
		PalletsSent:     num("pallets_sent"),
		PalletsReceived: num("pallets_received"),
		PalletsTotal:    num("pallets_total"),
		EmptyBaskets:    num("empty_baskets"),
		EmptyPallets:    num("empty_pallets"),
		CustomerCount:   num("customer_count"),
	}
	if v, ok := get("start_time"); ok {
		rec.StartTime = strings.TrimSpace(v)
	}
	if v, ok := get("end_time"); ok {
		rec.EndTime = strings.TrimSpace(v)
	}
	if v, ok := get("remark"); ok {
		rec.Remark = strings.TrimSpace(v)
	}

	// Re-derive over stored values when the source columns exist.
	if _, haveStart := get("odometer_start"); haveStart {
		if _, haveEnd := get("odometer_end"); haveEnd {
			rec.Distance = rec.OdometerEnd - rec.OdometerStart
		}
	}
	if _, haveSent := get("pallets_sent"); haveSent {
		if _, haveRecv := get("pallets_received"); haveRecv {
			rec.PalletsTotal = rec.PalletsSent + rec.PalletsReceived
		}
	}

	return rec, nil
}

// ParseDate normalizes a legacy date cell to a calendar date in UTC.
// Both "-" and "/" separators appear in the sheets, and single-digit months
// and days are common, so "2026/1/5" and "2026-01-05" parse identically.
func ParseDate(s string) (time.Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	for _, layout := range []string{"2006-01-02", "2006-1-2"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// resolve finds the cell for a canonical field using the alias table:
// exact header match first, then a header containing the alias.
func resolve(row Row, field string) (string, bool) {
	aliases := fieldAliases[field]
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	for _, alias := range aliases {
		for header, v := range row {
			if strings.Contains(strings.TrimSpace(header), alias) {
				return v, true
			}
		}
	}
	return "", false
}

// coerceInt parses a numeric cell, defaulting to zero on anything
// unparseable. Floats are truncated toward zero to match the sheet's
// whole-number columns ("12.0" was a common artifact of re-imports).
func coerceInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
