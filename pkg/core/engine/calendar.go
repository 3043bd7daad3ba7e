package engine

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/nuriabp/ambulatori-rota/pkg/core/hours"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// DateRange is an inclusive date interval, e.g. the vaccination campaign
// window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the range covers the date.
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.From) && !date.After(r.To)
}

// Calendar classifies dates for one generation run: ISO week, activity level,
// weekends and public holidays. Holiday recurrences are expanded once over the
// run's range at construction time.
type Calendar struct {
	agenda   model.Agenda
	holidays map[model.DateKey]bool
}

// NewCalendar builds a calendar from the agenda, explicit holiday dates and
// RRULE-defined holiday recurrences, expanded over [from, to].
func NewCalendar(agenda model.Agenda, holidayDates []time.Time, holidayRules []string, from, to time.Time) (*Calendar, error) {
	cal := &Calendar{
		agenda:   agenda,
		holidays: make(map[model.DateKey]bool, len(holidayDates)),
	}
	for _, d := range holidayDates {
		cal.holidays[model.DateKeyFor(d)] = true
	}
	for _, s := range holidayRules {
		rule, err := rrule.StrToRRule(s)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rrule %q: %w", s, err)
		}
		for _, d := range rule.Between(from.AddDate(0, 0, -1), to.AddDate(0, 0, 1), true) {
			cal.holidays[model.DateKeyFor(d)] = true
		}
	}
	return cal, nil
}

// Level returns the activity level of the week containing date.
func (c *Calendar) Level(date time.Time) model.ActivityLevel {
	return c.agenda.LevelFor(date)
}

// IsHoliday reports whether the date is a public holiday.
func (c *Calendar) IsHoliday(date time.Time) bool {
	return c.holidays[model.DateKeyFor(date)]
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsOffDay reports whether no duty is scheduled at all: weekend, public
// holiday, or a CLOSED activity week.
func (c *Calendar) IsOffDay(date time.Time) bool {
	return IsWeekend(date) || c.IsHoliday(date) || c.Level(date) == model.ActivityClosed
}

// IsPreSessionFriday reports whether the date is a Friday whose following week
// is a session week.
func (c *Calendar) IsPreSessionFriday(date time.Time) bool {
	if date.Weekday() != time.Friday {
		return false
	}
	return c.Level(date.AddDate(0, 0, 3)) == model.ActivitySession
}

// DayKind maps a date to its duration regime.
func (c *Calendar) DayKind(date time.Time) hours.DayKind {
	if date.Weekday() != time.Friday {
		return hours.KindWeekday
	}
	if c.IsPreSessionFriday(date) {
		return hours.KindPreSessionFriday
	}
	return hours.KindFriday
}

// WeekOfMonth returns the 1-based week-of-month ordinal of the date, counting
// from the month's first day.
func WeekOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}
