// Package unixtime converts broken-down civil date-times to Unix
// timestamps without going through time.Location. Resolver entry points
// for embedded callers take civil UTC fields directly, and pulling in
// location handling for that conversion would defeat the point of a
// database-free lookup path.
package unixtime

import "time"

const secondsPerDay = 86400

// FromDateTime converts the given UTC date and time to a Unix timestamp,
// i.e. the number of seconds since 1970-01-01 00:00:00 UTC. It ignores
// leap seconds but respects leap years and assumes the proleptic
// Gregorian calendar.
func FromDateTime(year int, month time.Month, day, hour, minute, second int) int64 {
	return daysFromCivil(year, int(month), day)*secondsPerDay +
		int64(hour)*3600 + int64(minute)*60 + int64(second)
}

// daysFromCivil returns the number of days between 1970-01-01 and the
// given civil date. It uses era-based arithmetic over 400-year Gregorian
// cycles: years are shifted so each era starts on March 1, which puts the
// leap day at the end of the year and makes the day-of-year formula
// branch-free.
func daysFromCivil(y, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400 // [0, 399]
	mp := m + 9
	if m > 2 {
		mp = m - 3
	}
	doy := (153*mp+2)/5 + d - 1                    // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy         // [0, 146096]
	return int64(era)*146097 + int64(doe) - 719468 // 719468 days from 0000-03-01 to 1970-01-01
}
