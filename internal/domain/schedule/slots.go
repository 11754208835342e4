package schedule

import (
	"fmt"
	"time"
)

// SlotStep is the fixed booking grid granularity.
const SlotStep = 15 * time.Minute

const stepMinutes = int(SlotStep / time.Minute)

// ParseHM parses a strict HH:mm string into minutes since midnight.
func ParseHM(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots returns every slot start in [opening, closing) on the 15 minute
// grid. Missing or malformed bounds, or opening >= closing, yield no slots.
func GenerateSlots(opening, closing string) []string {
	open, ok := ParseHM(opening)
	if !ok {
		return []string{}
	}
	closeAt, ok := ParseHM(closing)
	if !ok || open >= closeAt {
		return []string{}
	}

	out := make([]string, 0, (closeAt-open+stepMinutes-1)/stepMinutes)
	for m := open; m < closeAt; m += stepMinutes {
		out = append(out, FormatHM(m))
	}
	return out
}

// At places an HH:mm slot on the calendar day of date, in date's location.
func At(date time.Time, hm string) (time.Time, bool) {
	m, ok := ParseHM(hm)
	if !ok {
		return time.Time{}, false
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, date.Location()), true
}
