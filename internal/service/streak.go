package service

import "time"

// FirstActivityGap is the sentinel gap reported when the user has no
// prior activity date.
const FirstActivityGap = 999

// UTCToday returns the current UTC calendar date at midnight
func UTCToday() time.Time {
	return UTCDate(time.Now())
}

// UTCDate truncates a time to its UTC calendar date
func UTCDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextStreak computes the streak value after activity on the given day.
//
//	nil last activity    -> (1, true, FirstActivityGap)  first ever activity
//	same day             -> (current, false, 0)          already counted today
//	consecutive day      -> (current+1, true, 1)
//	gap of 2+ days       -> (1, true, gap)               streak broken
//	last activity in the
//	future (clock skew)  -> (current, false, gap)        treated as same-day
func NextStreak(lastActivity *time.Time, currentStreak int, today time.Time) (newStreak int, advanced bool, gapDays int) {
	if lastActivity == nil {
		return 1, true, FirstActivityGap
	}

	gap := int(UTCDate(today).Sub(UTCDate(*lastActivity)).Hours() / 24)

	switch {
	case gap <= 0:
		return currentStreak, false, gap
	case gap == 1:
		return currentStreak + 1, true, 1
	default:
		return 1, true, gap
	}
}
