package common

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errEmptyValue = errors.New("empty value")

// ParseAmount parses a normalized amount string and rounds it to 2 decimal places.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, errEmptyValue
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(2), nil
}

// ParseISODate parses a YYYY-MM-DD date.
func ParseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyValue
	}
	return time.Parse(DateLayout, value)
}

// ParseDateLayouts tries each layout in order and returns the first successful parse.
func ParseDateLayouts(value string, layouts []string) (time.Time, error) {
	var lastErr error = errEmptyValue
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// SentinelTime is the parsed form of SentinelDate.
func SentinelTime() time.Time {
	return time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
}
