package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

var mu sync.RWMutex

var shopTZ = DefaultTimezone

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// SetShop configures the timezone every booking date/time is interpreted in.
// Invalid names keep the current value.
func SetShop(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	shopTZ = tz
	mu.Unlock()
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Shop() *time.Location {
	mu.RLock()
	tz := shopTZ
	mu.RUnlock()
	return Location(tz)
}

func Now() time.Time {
	return time.Now().In(Shop())
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses YYYY-MM-DD as midnight in the shop timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, Shop())
}

// ParseDateTime parses "YYYY-MM-DD" + "HH:mm" in the shop timezone.
func ParseDateTime(date, hm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hm, Shop())
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
