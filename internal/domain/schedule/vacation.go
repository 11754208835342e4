package schedule

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var ErrInvalidVacation = errors.New("vacation ends before it starts")

// OnVacation reports the vacation covering date's calendar day, if any.
func OnVacation(vacations []models.Vacation, date time.Time) (*models.Vacation, bool) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	for i := range vacations {
		v := &vacations[i]
		if !day.Before(v.StartDate) && !day.After(v.EndDate) {
			return v, true
		}
	}
	return nil, false
}

// NormalizeVacation widens [start, end] to whole days in loc.
func NormalizeVacation(start, end time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start = start.In(loc)
	end = end.In(loc)

	y, m, d := start.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)

	y, m, d = end.Date()
	to := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)

	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidVacation
	}
	return from, to, nil
}
