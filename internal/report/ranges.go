// Package report turns ledger records into chat-sized analytics
// messages and parses the free-form date-range patterns users type.
package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
)

// Range pattern shapes, checked in order. The first full match wins, so
// a bare year never falls through to the year-range shape.
var rangeShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{4}$`),
	regexp.MustCompile(`^\d{4}-(?:0?[1-9]|1[0-2])$`),
	regexp.MustCompile(`^\d{4}-(?:0?[1-9]|1[0-2])-\d{4}-(?:0?[1-9]|1[0-2])$`),
	regexp.MustCompile(`^\d{4}-(?:0?[1-9]|1[0-2])-(?:0?[1-9]|[12][0-9]|3[01])-\d{4}-(?:0?[1-9]|1[0-2])-(?:0?[1-9]|[12][0-9]|3[01])$`),
}

const (
	shapeYear = iota
	shapeYears
	shapeMonth
	shapeMonths
	shapeDays
)

func patternError() error {
	return errs.NewUser("⚠️ Invalid dates pattern.\n\n" +
		"Here are some correct examples:\n" +
		"2022: a whole year\n" +
		"2022-2023: a range of years\n" +
		"2022-4: a month of a year\n" +
		"2022-4 - 2023-3: a range of months\n" +
		"2022-4-1 - 2022-4-3: a range of exact dates")
}

// ParseRange resolves a user-typed pattern into an inclusive date
// range. Whitespace is ignored everywhere in the input.
func ParseRange(payload string) (time.Time, time.Time, error) {
	cleaned := strings.Join(strings.Fields(payload), "")
	if cleaned == "" {
		return time.Time{}, time.Time{}, patternError()
	}

	shape := -1
	for i, re := range rangeShapes {
		if re.MatchString(cleaned) {
			shape = i
			break
		}
	}

	parts := strings.Split(cleaned, "-")
	switch shape {
	case shapeYear:
		year := atoi(parts[0])
		return date(year, 1, 1), date(year, 12, 31), nil
	case shapeYears:
		return date(atoi(parts[0]), 1, 1), date(atoi(parts[1]), 12, 31), nil
	case shapeMonth:
		year, month := atoi(parts[0]), atoi(parts[1])
		start, end := dates.MonthRange(year, time.Month(month))
		return start, end, nil
	case shapeMonths:
		start := date(atoi(parts[0]), time.Month(atoi(parts[1])), 1)
		_, end := dates.MonthRange(atoi(parts[2]), time.Month(atoi(parts[3])))
		return start, end, nil
	case shapeDays:
		start := date(atoi(parts[0]), time.Month(atoi(parts[1])), atoi(parts[2]))
		end := date(atoi(parts[3]), time.Month(atoi(parts[4])), atoi(parts[5]))
		return start, end, nil
	}
	return time.Time{}, time.Time{}, patternError()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
