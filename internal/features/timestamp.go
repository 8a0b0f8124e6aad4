package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
// Fractional seconds are accepted after the seconds field by every layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a ledger timestamp into UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("ParseTimestamp: unrecognised timestamp %q: %w", s, domain.ErrParse)
}
