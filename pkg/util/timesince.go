// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// Buckets mirror what the frontend expects: singular for exactly one unit,
// weeks below 30 days, 30 day months and 365 day years.
var agoMagnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * time.Second, Format: "%d second %s", DivBy: time.Second},
	{D: time.Minute, Format: "%d seconds %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: time.Minute},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: time.Hour},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: day},
	{D: week, Format: "%d days %s", DivBy: day},
	{D: 2 * week, Format: "1 week %s", DivBy: week},
	{D: month, Format: "%d weeks %s", DivBy: week},
	{D: 2 * month, Format: "1 month %s", DivBy: month},
	{D: year, Format: "%d months %s", DivBy: month},
	{D: 2 * year, Format: "1 year %s", DivBy: year},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: year},
}

// TimeSince renders t relative to now, e.g. "3 minutes ago"
func TimeSince(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "ago", "from now", agoMagnitudes)
}
