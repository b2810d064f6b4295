package processors

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonical health CSV fields and the header names accepted for each.
const (
	FieldDate       = "date"
	FieldSteps      = "steps"
	FieldHeartRate  = "heart_rate"
	FieldSleepHours = "sleep_hours"
)

var columnCandidates = map[string][]string{
	FieldDate:       {"date", "day"},
	FieldSteps:      {"steps", "step_count"},
	FieldHeartRate:  {"heart_rate", "heartrate", "heart rate", "hr"},
	FieldSleepHours: {"sleep_hours", "sleep", "sleep hours"},
}

// requiredFields is the order columns are checked in, so error messages are stable.
var requiredFields = []string{FieldDate, FieldSteps, FieldHeartRate, FieldSleepHours}

var whitespacePattern = regexp.MustCompile(`\s+`)

// ColumnMap resolves canonical fields to column indexes in a CSV header row.
type ColumnMap map[string]int

// normalizeHeader lowercases a header name and collapses internal whitespace
// to underscores, so "Heart Rate" and "heart_rate" compare equal.
func normalizeHeader(header string) string {
	return whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
}

// FindColumn returns the index of the first header matching any candidate name,
// or -1 if none match. A candidate matches when it equals the normalized header
// exactly, or equals it after stripping underscores from both sides (so
// "heart rate", "heart_rate" and "heartrate" all resolve the same way).
func FindColumn(headers []string, candidates []string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	for _, candidate := range candidates {
		want := normalizeHeader(candidate)
		for i, have := range normalized {
			if have == want || strings.ReplaceAll(have, "_", "") == strings.ReplaceAll(want, "_", "") {
				return i
			}
		}
	}
	return -1
}

// MapColumns resolves every required canonical field against the header row.
// A missing column is a hard failure naming the canonical column.
func MapColumns(headers []string) (ColumnMap, error) {
	mapped := make(ColumnMap, len(requiredFields))
	for _, field := range requiredFields {
		idx := FindColumn(headers, columnCandidates[field])
		if idx < 0 {
			return nil, fmt.Errorf("CSV must have a '%s' column", field)
		}
		mapped[field] = idx
	}
	return mapped, nil
}
