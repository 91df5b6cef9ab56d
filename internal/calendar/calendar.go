// Package calendar holds the week and day arithmetic used by the planner.
// Every date is a UTC midnight; ISO dates are YYYY-MM-DD strings.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const ISOLayout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid day")

// Day is a day-of-week label as stored in logs and settings.
type Day string

const (
	Sunday    Day = "Sunday"
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// sundayFirst mirrors time.Weekday ordering.
var sundayFirst = []Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d Day) String() string {
	return string(d)
}

func (d Day) IsValid() bool {
	switch d {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	default:
		return false
	}
}

// Weekday returns the time.Weekday for d; invalid days map to Sunday.
func (d Day) Weekday() time.Weekday {
	for i, day := range sundayFirst {
		if day == d {
			return time.Weekday(i)
		}
	}
	return time.Sunday
}

func DayFromWeekday(wd time.Weekday) Day {
	return sundayFirst[int(wd)%7]
}

func ParseISO(dateISO string) (time.Time, error) {
	t, err := time.ParseInLocation(ISOLayout, dateISO, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", dateISO, err)
	}
	return t, nil
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func IsISODate(dateISO string) bool {
	_, err := ParseISO(dateISO)
	return err == nil
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func AddDays(dateISO string, days int) (string, error) {
	t, err := ParseISO(dateISO)
	if err != nil {
		return "", err
	}
	return FormatISO(t.AddDate(0, 0, days)), nil
}

// StartOfWeek returns the UTC midnight that opens the 7-day window containing t,
// where weeks begin on startDay.
func StartOfWeek(t time.Time, startDay Day) time.Time {
	day := Midnight(t)
	diff := (int(day.Weekday()) - int(startDay.Weekday()) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// CurrentWeekStart is the week anchor for now, as an ISO date.
func CurrentWeekStart(now time.Time, startDay Day) string {
	return FormatISO(StartOfWeek(now, startDay))
}

// DayOrder returns the seven day labels rotated so startDay comes first.
func DayOrder(startDay Day) []Day {
	start := int(startDay.Weekday())
	order := make([]Day, 0, len(sundayFirst))
	for i := range sundayFirst {
		order = append(order, sundayFirst[(start+i)%7])
	}
	return order
}

// DateForDayInWeek resolves a day label to the concrete date inside the week
// anchored at weekStartISO.
func DateForDayInWeek(weekStartISO string, day Day, startDay Day) (string, error) {
	if !day.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	start, err := ParseISO(weekStartISO)
	if err != nil {
		return "", err
	}
	for i, d := range DayOrder(startDay) {
		if d == day {
			return FormatISO(start.AddDate(0, 0, i)), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, day)
}

// DayForDate is the inverse of DateForDayInWeek: the weekday label of dateISO.
func DayForDate(dateISO string) (Day, error) {
	t, err := ParseISO(dateISO)
	if err != nil {
		return "", err
	}
	return DayFromWeekday(t.Weekday()), nil
}

// WeekDates lists the seven ISO dates starting at weekStartISO.
func WeekDates(weekStartISO string) ([]string, error) {
	start, err := ParseISO(weekStartISO)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = FormatISO(start.AddDate(0, 0, i))
	}
	return dates, nil
}

func PreviousWeek(weekStartISO string) (string, error) {
	return AddDays(weekStartISO, -7)
}

func NextWeek(weekStartISO string) (string, error) {
	return AddDays(weekStartISO, 7)
}

// WeekContaining returns the anchor of the week holding dateISO.
func WeekContaining(dateISO string, startDay Day) (string, error) {
	t, err := ParseISO(dateISO)
	if err != nil {
		return "", err
	}
	return FormatISO(StartOfWeek(t, startDay)), nil
}

func IsDateInWeek(dateISO, weekStartISO string) bool {
	t, err := ParseISO(dateISO)
	if err != nil {
		return false
	}
	start, err := ParseISO(weekStartISO)
	if err != nil {
		return false
	}
	return !t.Before(start) && t.Before(start.AddDate(0, 0, 7))
}

// DatesBetween lists every ISO date in [fromISO, toISO]; an inverted range is empty.
func DatesBetween(fromISO, toISO string) ([]string, error) {
	from, err := ParseISO(fromISO)
	if err != nil {
		return nil, err
	}
	to, err := ParseISO(toISO)
	if err != nil {
		return nil, err
	}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatISO(d))
	}
	return dates, nil
}
