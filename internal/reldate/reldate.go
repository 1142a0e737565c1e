// Package reldate converts relative date expressions ("3d", "mo", "today")
// into calendar dates.
package reldate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the date layout used for all dates written back into todos.
const ISOLayout = "2006-01-02"

var (
	periodPattern   = regexp.MustCompile(`^(?i)([0-9]+)([dwmy])$`)
	weekdayPattern  = regexp.MustCompile(`^(?i)(mo(n(day)?)?|tu(e(sday)?)?|we(d(nesday)?)?|th(u(rsday)?)?|fr(i(day)?)?|sa(t(urday)?)?|su(n(day)?)?)$`)
	todayPattern    = regexp.MustCompile(`^(?i)tod(ay)?$`)
	tomorrowPattern = regexp.MustCompile(`^(?i)tom(orrow)?$`)
)

var weekdays = map[string]time.Weekday{
	"mo": time.Monday,
	"tu": time.Tuesday,
	"we": time.Wednesday,
	"th": time.Thursday,
	"fr": time.Friday,
	"sa": time.Saturday,
	"su": time.Sunday,
}

// Day returns midnight UTC of t's calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a date as ISO 8601 (YYYY-MM-DD).
func Format(t time.Time) string {
	return t.Format(ISOLayout)
}

// Parse reads an ISO 8601 date.
func Parse(s string) (time.Time, bool) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolve converts token into an absolute date relative to ref.
//
// Understood forms, tried in this order:
//   - <N>d, <N>w, <N>m, <N>y: N days, weeks, 30-day months or 365-day years after ref
//   - weekday names, full or abbreviated (mo, mon, monday): the next such day on or after ref
//   - tod, today: ref
//   - tom, tomorrow: the day after ref
//
// The second return value is false when token matches none of them.
func Resolve(token string, ref time.Time) (time.Time, bool) {
	token = strings.TrimSpace(token)
	ref = Day(ref)

	if m := periodPattern.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Overflowing counts are not dates.
			return time.Time{}, false
		}
		return addPeriod(ref, n, strings.ToLower(m[2])), true
	}

	if weekdayPattern.MatchString(token) {
		target := weekdays[strings.ToLower(token[:2])]
		shift := (int(target) - int(ref.Weekday()) + 7) % 7
		return ref.AddDate(0, 0, shift), true
	}

	if todayPattern.MatchString(token) {
		return ref, true
	}

	if tomorrowPattern.MatchString(token) {
		return ref.AddDate(0, 0, 1), true
	}

	return time.Time{}, false
}

func addPeriod(ref time.Time, n int, unit string) time.Time {
	switch unit {
	case "w":
		return ref.AddDate(0, 0, 7*n)
	case "m":
		// a month is 30 days
		return ref.AddDate(0, 0, 30*n)
	case "y":
		// a year is 365 days, leap years included
		return ref.AddDate(0, 0, 365*n)
	default:
		return ref.AddDate(0, 0, n)
	}
}
