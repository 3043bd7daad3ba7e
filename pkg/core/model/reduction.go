package model

import "time"

// ReductionOption is the kind of work-time adjustment a reduction rule makes.
type ReductionOption string

const (
	// FullDayOff replaces the whole cell with a paid-absence marker on the
	// rule's target weekday (80%)
	FullDayOff ReductionOption = "FULL_DAY_OFF"

	// FridayOffPlusSecondary gives Friday off and shortens a secondary
	// weekday's window by 1.5 hours (80%)
	FridayOffPlusSecondary ReductionOption = "FRIDAY_OFF_PLUS_SECONDARY"

	// LeaveEarlyMonThu shortens the window by 1 hour Monday through
	// Thursday (90%)
	LeaveEarlyMonThu ReductionOption = "LEAVE_EARLY_MON_THU"

	// ShortenStart3h delays the start by 3 hours on the target weekday (90%)
	ShortenStart3h ReductionOption = "SHORTEN_START_3H"

	// ShortenEnd3h advances the end by 3 hours on the target weekday (90%)
	ShortenEnd3h ReductionOption = "SHORTEN_END_3H"
)

// ReductionRule ("jornada") is a part-time contract clause for one nurse over
// a validity interval. At most one rule is active for a nurse on a date: the
// first interval match wins, and 100% rules are no-ops.
type ReductionRule struct {
	NurseID string

	// Percent is the contracted work percentage: 80, 90 or 100
	Percent int

	From time.Time
	To   time.Time

	Option ReductionOption

	// Weekdays the option targets. FullDayOff and the 3h variants use the
	// first entry; FridayOffPlusSecondary uses the first entry as the
	// secondary day; LeaveEarlyMonThu ignores it.
	Weekdays []time.Weekday
}

// ActiveOn reports whether the rule's validity interval covers the date and
// the rule actually reduces anything.
func (r ReductionRule) ActiveOn(date time.Time) bool {
	if r.Percent >= 100 {
		return false
	}
	return !date.Before(r.From) && !date.After(r.To)
}

// TargetsWeekday reports whether the rule's configured weekday list includes
// the given weekday.
func (r ReductionRule) TargetsWeekday(d time.Weekday) bool {
	for _, wd := range r.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

// ActiveRule returns the first rule in rules that is active for the nurse on
// the date, if any.
func ActiveRule(rules []ReductionRule, nurseID string, date time.Time) (ReductionRule, bool) {
	for _, r := range rules {
		if r.NurseID == nurseID && r.ActiveOn(date) {
			return r, true
		}
	}
	return ReductionRule{}, false
}
