package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Weekday enumerates the teaching days of the weekly grid. Sunday is not part of the grid.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllWeekdays lists the grid days in order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
}

// ParseWeekday accepts a day name (MONDAY, mon), or its index 1-6.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("day of week is required")
	}
	if n, err := strconv.Atoi(value); err == nil {
		day := Weekday(n)
		if !day.Valid() {
			return 0, fmt.Errorf("day of week %d outside MONDAY-SATURDAY", n)
		}
		return day, nil
	}
	for day, name := range weekdayNames {
		if name == value || (len(value) == 3 && strings.HasPrefix(name, value)) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", raw)
}

// Valid reports whether d is one of the grid days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Saturday
}

// Index returns the zero-based position of the day inside the week.
func (d Weekday) Index() int {
	return int(d) - 1
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// MarshalText renders the day name.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses a day name or index.
func (d *Weekday) UnmarshalText(text []byte) error {
	day, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value stores the day as its 1-6 index.
func (d Weekday) Value() (driver.Value, error) {
	return int64(d), nil
}

// Scan reads the 1-6 index written by Value.
func (d *Weekday) Scan(src interface{}) error {
	n, err := scanInt(src)
	if err != nil {
		return fmt.Errorf("scan weekday: %w", err)
	}
	day := Weekday(n)
	if !day.Valid() {
		return fmt.Errorf("scan weekday: %d outside MONDAY-SATURDAY", n)
	}
	*d = day
	return nil
}

// MinutesPerDay bounds Clock values.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time with minute resolution, stored as minutes from midnight.
type Clock int

// ParseClock parses HH:MM (a trailing :SS is tolerated and ignored).
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return Clock(hour*60 + minute), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Add shifts the clock by the given number of minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Minutes returns the minutes elapsed since midnight.
func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalText renders HH:MM.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses HH:MM.
func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the clock as minutes from midnight.
func (c Clock) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan reads minutes from midnight.
func (c *Clock) Scan(src interface{}) error {
	n, err := scanInt(src)
	if err != nil {
		return fmt.Errorf("scan clock: %w", err)
	}
	if n < 0 || n > MinutesPerDay {
		return fmt.Errorf("scan clock: %d minutes out of range", n)
	}
	*c = Clock(n)
	return nil
}

func scanInt(src interface{}) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("unexpected NULL")
	default:
		return 0, fmt.Errorf("unsupported type %T", src)
	}
}
