package unixtime

import (
	"testing"
	"time"
)

func TestFromDateTime(t *testing.T) {
	cases := []struct {
		year                      int
		month                     time.Month
		day, hour, minute, second int
	}{
		{1970, time.January, 1, 0, 0, 0},
		{1969, time.December, 31, 23, 59, 59},
		// 1900 is not a leap year, 2000 is.
		{1900, time.March, 1, 0, 0, 0},
		{2000, time.February, 29, 12, 0, 0},
		{2022, time.March, 13, 8, 0, 0},
		{2022, time.November, 6, 7, 0, 0},
		{2024, time.February, 29, 23, 59, 59},
		{2038, time.January, 19, 3, 14, 8}, // past the 32-bit rollover
		{1883, time.November, 18, 17, 0, 0},
	}
	for _, c := range cases {
		want := time.Date(c.year, c.month, c.day, c.hour, c.minute, c.second, 0, time.UTC).Unix()
		got := FromDateTime(c.year, c.month, c.day, c.hour, c.minute, c.second)
		if got != want {
			t.Errorf("FromDateTime(%d, %v, %d, %d, %d, %d) = %d, want %d",
				c.year, c.month, c.day, c.hour, c.minute, c.second, got, want)
		}
	}
}
