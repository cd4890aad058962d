package models

import (
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/config"
)

// The store persists numbers as strings (fares currency-formatted like
// "₱125.00", timestamps as decimal epoch millis). All field access funnels
// through these two parsers so no aggregation re-implements ad hoc parsing.
// A value that fails to parse is coerced to a safe default and logged; it
// never aborts an aggregation.

var moneyCleaner = regexp.MustCompile(`[^0-9.\-]`)

// ParseMoney strips everything except digits, '.' and '-', then parses.
// Malformed or negative values coerce to zero.
func ParseMoney(raw string) decimal.Decimal {
	cleaned := moneyCleaner.ReplaceAllString(raw, "")
	if cleaned == "" {
		warnCoerced("ParseMoney", raw)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		warnCoerced("ParseMoney", raw)
		return decimal.Zero
	}
	if d.IsNegative() {
		warnCoerced("ParseMoney", raw)
		return decimal.Zero
	}
	return d
}

// ParseEpochMillis parses a decimal-string epoch-milliseconds timestamp,
// falling back to now.
func ParseEpochMillis(raw string) time.Time {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		warnCoerced("ParseEpochMillis", raw)
		return time.Now().UTC()
	}
	return time.UnixMilli(n).UTC()
}

func FormatEpochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func warnCoerced(funcName string, raw string) {
	config.LogWarn(config.GetLogger(), "models", funcName, "field failed to parse, coerced to default", raw)
}
