package reldate

import (
	"testing"
	"time"
)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		want   time.Time
		wantOK bool
	}{
		{name: "today", token: "today", want: monday, wantOK: true},
		{name: "tod", token: "tod", want: monday, wantOK: true},
		{name: "tomorrow", token: "tomorrow", want: date(2026, 10, 20), wantOK: true},
		{name: "tom uppercase", token: "TOM", want: date(2026, 10, 20), wantOK: true},
		{name: "days", token: "3d", want: date(2026, 10, 22), wantOK: true},
		{name: "zero days", token: "0d", want: monday, wantOK: true},
		{name: "weeks", token: "2w", want: date(2026, 11, 2), wantOK: true},
		{name: "months are 30 days", token: "1m", want: date(2026, 11, 18), wantOK: true},
		{name: "years are 365 days", token: "1y", want: date(2027, 10, 19), wantOK: true},
		{name: "unit is case-insensitive", token: "3D", want: date(2026, 10, 22), wantOK: true},
		{name: "same weekday is not skipped", token: "mo", want: monday, wantOK: true},
		{name: "full weekday", token: "Monday", want: monday, wantOK: true},
		{name: "abbreviated weekday", token: "tu", want: date(2026, 10, 20), wantOK: true},
		{name: "three letter weekday", token: "fri", want: date(2026, 10, 23), wantOK: true},
		{name: "sunday", token: "sunday", want: date(2026, 10, 25), wantOK: true},
		{name: "absolute date is not relative", token: "2026-12-01", wantOK: false},
		{name: "trailing garbage", token: "3dx", wantOK: false},
		{name: "negative count", token: "-3d", wantOK: false},
		{name: "partial weekday", token: "m", wantOK: false},
		{name: "misspelled weekday", token: "mond", wantOK: false},
		{name: "empty", token: "", wantOK: false},
		{name: "unknown word", token: "someday", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.token, monday)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %s, want %s", tt.token, Format(got), Format(tt.want))
			}
		})
	}
}

func TestResolveWeekdayFromEveryDay(t *testing.T) {
	// Every weekday resolved from every reference day lands within the next 7 days
	// and on the requested weekday.
	for offset := 0; offset < 7; offset++ {
		ref := monday.AddDate(0, 0, offset)
		for token, want := range weekdays {
			got, ok := Resolve(token, ref)
			if !ok {
				t.Fatalf("Resolve(%q) failed", token)
			}
			if got.Weekday() != want {
				t.Errorf("Resolve(%q, %s) = %s (%s), want a %s", token, Format(ref), Format(got), got.Weekday(), want)
			}
			if diff := got.Sub(ref); diff < 0 || diff >= 7*24*time.Hour {
				t.Errorf("Resolve(%q, %s) = %s, not within a week", token, Format(ref), Format(got))
			}
			if ref.Weekday() == want && !got.Equal(ref) {
				t.Errorf("Resolve(%q, %s) = %s, want the reference date", token, Format(ref), Format(got))
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, token := range []string{"today", "tomorrow", "3d", "2w", "4m", "1y", "we"} {
		first, _ := Resolve(token, monday)
		for i := 0; i < 5; i++ {
			again, _ := Resolve(token, monday)
			if !again.Equal(first) {
				t.Fatalf("Resolve(%q) changed between calls: %s then %s", token, Format(first), Format(again))
			}
		}
	}
}

func TestResolveIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	got, ok := Resolve("tomorrow", late)
	if !ok || !got.Equal(date(2026, 10, 20)) {
		t.Errorf("Resolve(tomorrow) from late evening = %s, want 2026-10-20", Format(got))
	}
}

func TestParseAndFormat(t *testing.T) {
	d, ok := Parse("2026-02-28")
	if !ok {
		t.Fatal("Parse failed for a valid date")
	}
	if Format(d) != "2026-02-28" {
		t.Errorf("Format = %q", Format(d))
	}
	if _, ok := Parse("tomorrow"); ok {
		t.Error("Parse accepted a relative date")
	}
}
