package usecase

import (
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
)

// Window is a resolved export time range. Start covers startHour:00:00 and
// End covers endHour:59:59 of the target day in the configured timezone.
type Window struct {
	Start      int64
	End        int64
	DateString string
}

// ResolveWindow turns a target date and hour range into epoch-second bounds.
// An empty date means now minus daysAgo in loc. Pure function.
func ResolveWindow(date string, daysAgo, startHour, endHour int, loc *time.Location, now time.Time) (Window, error) {
	if startHour < 0 || startHour > 23 || endHour < 0 || endHour > 23 || startHour > endHour {
		return Window{}, entity.ErrInvalidHourRange
	}

	var target time.Time
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return Window{}, entity.ErrInvalidDateFormat
		}
		target = parsed
	} else {
		target = now.In(loc).AddDate(0, 0, -daysAgo)
	}

	start := time.Date(target.Year(), target.Month(), target.Day(), startHour, 0, 0, 0, loc)
	end := time.Date(target.Year(), target.Month(), target.Day(), endHour, 59, 59, 0, loc)

	return Window{
		Start:      start.Unix(),
		End:        end.Unix(),
		DateString: target.Format("2006-01-02"),
	}, nil
}
