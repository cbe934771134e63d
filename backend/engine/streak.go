package engine

import "time"

// DayFormat is the canonical calendar-day encoding used by the ledger.
// All day arithmetic happens in UTC so two requests near midnight agree
// on which day they belong to.
const DayFormat = "2006-01-02"

// Day returns the canonical UTC calendar day for t.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// CurrentStreak counts consecutive full days (all five categories
// completed) ending at today. Today itself is still in progress, so a
// run that ends at yesterday keeps the streak alive: the streak only
// breaks once a day has fully elapsed without becoming full.
func CurrentStreak(fullDays map[string]bool, now time.Time) int {
	day := now.UTC().Truncate(24 * time.Hour)
	if !fullDays[day.Format(DayFormat)] {
		// Today not yet full; the run, if any, must end at yesterday.
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for fullDays[day.Format(DayFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// MissedDays counts consecutive fully elapsed days before today that
// did not become full, stopping at the most recent full day. Capped at
// a week back, matching the penalty window.
func MissedDays(fullDays map[string]bool, now time.Time) int {
	day := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	missed := 0
	for missed < 7 {
		if fullDays[day.Format(DayFormat)] {
			break
		}
		missed++
		day = day.AddDate(0, 0, -1)
	}
	return missed
}
