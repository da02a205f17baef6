package validation

import "time"

// Age returns the number of full years elapsed between birth and today.
// A year only counts once today's month/day reaches the birth month/day, so a
// Feb 29 birthday ages on Mar 1 in non-leap years.
func Age(birth, today time.Time) int {
	by, bm, bd := birth.Date()
	ty, tm, td := today.Date()
	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}
