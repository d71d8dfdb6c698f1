package units

import (
	"fmt"
	"strings"
	"time"
)

// CommonTimezones is a short list offered in error messages when a -tz flag
// does not resolve.
var CommonTimezones = []string{
	"UTC",
	"America/Los_Angeles",
	"America/New_York",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"Asia/Kolkata",
	"Asia/Shanghai",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// LocalTimezone selects the host's local zone.
const LocalTimezone = "Local"

// IsTimezoneValid checks if the given timezone is valid by attempting to load it from the tz database
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// GetValidTimezonesString returns a comma-separated string of common timezones for error messages
func GetValidTimezonesString() string {
	return strings.Join(CommonTimezones, ", ")
}

// LoadLocation resolves a timezone flag. An empty string or "Local" selects
// time.Local, matching how the phone logger rolls over its own files.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" || tz == LocalTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s (try one of %s): %w", tz, GetValidTimezonesString(), err)
	}
	return loc, nil
}

// LogDate is the calendar date of a log timestamp (ms since the epoch) in loc,
// at seconds resolution.
func LogDate(tsMs int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(tsMs/1000, 0).In(loc).Format("2006-01-02")
}
