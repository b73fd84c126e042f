package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date/time extraction for booking replies like "amanhã às 14h" or
// "25/12 10:30". Dates accept the literal tokens "hoje" and "amanhã" (and
// the unaccented "amanha") or a DD/MM with optional /YY or /YYYY; 2-digit
// years read as 20YY. Times accept HH, HHh, HH:MM or HHhMM and normalize
// to "HH:MM".

var (
	dateRE = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
	// Explicit time forms: 14:30, 14h30, 14h.
	clockRE = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2})|h(\d{2})?)\b`)
	// Bare hour introduced by "às"/"as": "amanhã às 14".
	bareHourRE = regexp.MustCompile(`\b[àa]s\s+(\d{1,2})\b`)
	// Last resort: a standalone 1-2 digit number reads as a whole hour.
	bareNumRE = regexp.MustCompile(`(?:^|\s)(\d{1,2})(?:\s|$)`)
)

// ParseDate resolves a date mention inside message relative to now.
// Year-less numeric dates roll forward to the next occurrence, so "05/01"
// sent in August books next January rather than a past date.
func ParseDate(message string, now time.Time) (time.Time, bool) {
	msg := strings.ToLower(message)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if strings.Contains(msg, "hoje") {
		return today, true
	}
	if strings.Contains(msg, "amanhã") || strings.Contains(msg, "amanha") {
		return today.AddDate(0, 0, 1), true
	}

	m := dateRE.FindStringSubmatch(msg)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	year := 0
	explicitYear := false
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		explicitYear = true
	} else {
		year = now.Year()
	}

	if !validDate(year, month, day) {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !explicitYear && date.Before(today) {
		date = date.AddDate(1, 0, 0)
	}
	return date, true
}

// validDate rejects out-of-range months and days that the month does not
// have (time.Date would silently normalize "31/02" into March).
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return int(d.Month()) == month && d.Day() == day
}

// ParseClock finds a time-of-day mention inside message and returns it
// normalized to "HH:MM".
func ParseClock(message string) (string, bool) {
	msg := strings.ToLower(message)

	if m := clockRE.FindStringSubmatch(msg); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		} else if m[3] != "" {
			minute, _ = strconv.Atoi(m[3])
		}
		return normalizeClock(hour, minute)
	}

	if m := bareHourRE.FindStringSubmatch(msg); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return normalizeClock(hour, 0)
	}

	if m := bareNumRE.FindStringSubmatch(msg); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return normalizeClock(hour, 0)
	}

	return "", false
}

func normalizeClock(hour, minute int) (string, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ExtractDateTime pulls both a date and a time out of one reply. Both must
// be present and well-formed for the booking flow to advance.
func ExtractDateTime(message string, now time.Time) (date time.Time, clock string, ok bool) {
	date, dateOK := ParseDate(message, now)
	if !dateOK {
		return time.Time{}, "", false
	}

	// Strip the date span first so "25/12" digits are not re-read as a time.
	remainder := dateRE.ReplaceAllString(strings.ToLower(message), " ")
	clock, clockOK := ParseClock(remainder)
	if !clockOK {
		return time.Time{}, "", false
	}
	return date, clock, true
}

// FormatDate renders a calendar date the way replies show it: "02/01/2006".
func FormatDate(d time.Time) string {
	return d.Format("02/01/2006")
}
