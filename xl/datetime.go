package xl

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Serial 0 of the 1900 date system, shifted by one day to absorb the
// fictitious 1900-02-29 that spreadsheet applications count.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TimeToSerial converts the wall clock of t into a 1900-system serial
// number. Times before 1900-01-01 are not representable.
func TimeToSerial(t time.Time) (float64, bool) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if wall.Year() < 1900 {
		return 0, false
	}
	secs := wall.Unix() - serialEpoch.Unix()
	serial := float64(secs)/secondsPerDay + float64(wall.Nanosecond())/(secondsPerDay*1e9)
	if serial < 61 {
		// before 1900-03-01 there is no phantom leap day to skip
		serial--
	}
	return serial, true
}

// SerialToTime is the inverse of TimeToSerial, rounded to the millisecond.
func SerialToTime(serial float64) time.Time {
	if serial < 61 {
		serial++
	}
	days := math.Floor(serial)
	ms := math.Round((serial - days) * secondsPerDay * 1000)
	return serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
}
