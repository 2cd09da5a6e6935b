package downtime

import "time"

// Minutes returns the whole minutes elapsed between start and end on the
// same calendar day anchored at date.
//
// An end earlier than the start means the work ran past midnight: the end
// is moved forward exactly one day, never more. Elapsed seconds are
// truncated, not rounded. Equal times yield 0, a valid result the caller
// may flag for review but the calculator never rejects.
func Minutes(date time.Time, start, end Clock) int {
	start = start.Normalize()
	end = end.Normalize()

	year, month, day := date.Date()
	from := time.Date(year, month, day, start.Hour, start.Minute, 0, 0, date.Location())
	to := time.Date(year, month, day, end.Hour, end.Minute, 0, 0, date.Location())

	if to.Before(from) {
		to = to.AddDate(0, 0, 1)
	}

	return int(to.Sub(from).Seconds()) / 60
}
