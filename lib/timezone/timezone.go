package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Singapore")
	if err != nil {
		panic(err)
	}
}

// force timezone to be Singapore regardless of where the process runs,
// otherwise relative-date arithmetic based on <time.Time>.Year()/Month()/Day()
// shifts by a day near midnight.
func Now() time.Time {
	return time.Now().In(Location)
}

// Midnight truncates a timestamp to the start of its calendar day,
// keeping the original location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
