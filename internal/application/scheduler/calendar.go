package scheduler

import "time"

// NextDaily próxima ocurrencia de hh:mm estrictamente posterior a now, en la zona de now.
func NextDaily(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return at
}

// NextWeekly próxima ocurrencia de weekday hh:mm estrictamente posterior a now.
func NextWeekly(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	y, m, d := now.Date()
	offset := (int(weekday) - int(now.Weekday()) + 7) % 7
	at := time.Date(y, m, d+offset, hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, m, d+offset+7, hour, minute, 0, 0, now.Location())
	}
	return at
}
