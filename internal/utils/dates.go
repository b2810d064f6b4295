package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date token matches none of the recognized forms.
var ErrInvalidDate = errors.New("invalid date")

var (
	isoDatePattern  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	usDatePattern   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dashDatePattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// Layouts tried by the generic fallback parse, most specific first.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate canonicalizes heterogeneous date text into ISO YYYY-MM-DD.
// Recognized forms, first match wins:
//
//	YYYY-M-D   (ISO, month/day zero-padded)
//	M/D/YYYY   (US slash form)
//	D-M-YYYY   (day-month dash form)
//
// Anything else falls through to a generic calendar-date parse; only the date
// portion is kept. Unparseable input returns ErrInvalidDate.
func NormalizeDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("empty date: %w", ErrInvalidDate)
	}

	if m := isoDatePattern.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], padDatePart(m[2]), padDatePart(m[3])), nil
	}
	if m := usDatePattern.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], padDatePart(m[1]), padDatePart(m[2])), nil
	}
	if m := dashDatePattern.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], padDatePart(m[2]), padDatePart(m[1])), nil
	}

	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q: %w", trimmed, ErrInvalidDate)
}

func padDatePart(part string) string {
	if len(part) == 1 {
		return "0" + part
	}
	return part
}
