package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const DateOnlyLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

var dateConfig = &now.Config{
	WeekStartDay: time.Sunday,
	TimeLocation: time.UTC,
	TimeFormats: []string{
		DateOnlyLayout,
		"02/01/2006",
		time.RFC3339,
	},
}

// ParseDateOnly accepts ISO ("2024-03-15"), Brazilian ("15/03/2024") or a full
// RFC3339 timestamp, and returns UTC midnight of that calendar day. The day of
// a timestamp is the one in its own offset.
func ParseDateOnly(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	t, err := dateConfig.Parse(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseDateOnlyMillis is ParseDateOnly in epoch millis, the unit entities use.
func ParseDateOnlyMillis(raw string) (int64, error) {
	t, err := ParseDateOnly(raw)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func FormatDateOnly(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(DateOnlyLayout)
}
