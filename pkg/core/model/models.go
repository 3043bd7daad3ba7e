package model

import (
	"fmt"
	"time"
)

// NurseRole distinguishes how a nurse participates in allocation.
type NurseRole string

const (
	// RoleStaff is a regular team member, eligible for everything
	RoleStaff NurseRole = "staff"

	// RoleLead is the team lead, defaulted to admin duty outside session weeks
	RoleLead NurseRole = "lead"

	// RoleResident is the seasonal intern role. Residents are never defaulted
	// to admin duty and never promoted to training duty.
	RoleResident NurseRole = "resident"
)

// Nurse is a member of the fixed team.
type Nurse struct {
	ID   string
	Name string

	// Order is the display position in printed rosters. Fairness never looks
	// at it, but it is the final deterministic tie-break when ranking scores
	// are otherwise equal.
	Order int

	Role NurseRole
}

// ActivityLevel is the organization-wide weekly regime driving staffing needs
// and shift durations.
type ActivityLevel string

const (
	ActivityNormal     ActivityLevel = "NORMAL"
	ActivitySession    ActivityLevel = "SESSION"
	ActivityWhiteGreen ActivityLevel = "WHITE_GREEN"
	ActivityReduced    ActivityLevel = "REDUCED"
	ActivityClosed     ActivityLevel = "CLOSED"
)

// WeekKey identifies an ISO-8601 week, e.g. "2025-W31".
type WeekKey string

// WeekKeyFor returns the ISO week key for a date.
func WeekKeyFor(date time.Time) WeekKey {
	year, week := date.ISOWeek()
	return WeekKey(fmt.Sprintf("%04d-W%02d", year, week))
}

// Agenda maps ISO weeks to their activity level. Weeks absent from the map
// are NORMAL.
type Agenda map[WeekKey]ActivityLevel

// LevelFor returns the activity level for the week containing date. Missing
// weeks and unrecognized values resolve to NORMAL.
func (a Agenda) LevelFor(date time.Time) ActivityLevel {
	switch a[WeekKeyFor(date)] {
	case ActivitySession:
		return ActivitySession
	case ActivityWhiteGreen:
		return ActivityWhiteGreen
	case ActivityReduced:
		return ActivityReduced
	case ActivityClosed:
		return ActivityClosed
	}
	return ActivityNormal
}

// DateKey is the canonical "2006-01-02" form used as a schedule map key.
type DateKey string

// DateKeyFor formats a date as a schedule key.
func DateKeyFor(date time.Time) DateKey {
	return DateKey(date.Format("2006-01-02"))
}

// Schedule maps nurse id -> date key -> cell. Absent entries mean the nurse
// is unassigned that day, which is only legal on weekends, holidays, CLOSED
// weeks, or outside the nurse's active work period.
type Schedule map[string]map[DateKey]ScheduleCell

// Get returns the cell for a nurse and date, if present.
func (s Schedule) Get(nurseID string, date DateKey) (ScheduleCell, bool) {
	cell, ok := s[nurseID][date]
	return cell, ok
}

// Set records a cell, creating the nurse's day map if needed.
func (s Schedule) Set(nurseID string, date DateKey, cell ScheduleCell) {
	days, ok := s[nurseID]
	if !ok {
		days = make(map[DateKey]ScheduleCell)
		s[nurseID] = days
	}
	days[date] = cell
}

// Hours maps nurse id -> date key -> net decimal hours.
type Hours map[string]map[DateKey]float64

// Get returns the value for a nurse and date, if present.
func (h Hours) Get(nurseID string, date DateKey) (float64, bool) {
	value, ok := h[nurseID][date]
	return value, ok
}

// Set records a value, creating the nurse's day map if needed.
func (h Hours) Set(nurseID string, date DateKey, value float64) {
	days, ok := h[nurseID]
	if !ok {
		days = make(map[DateKey]float64)
		h[nurseID] = days
	}
	days[date] = value
}

// RotationWeek commits a set of nurses to the off-site rotation for one ISO
// week. On SESSION weeks this fully occupies Monday through Thursday and
// produces a half-day prep cell on Friday.
type RotationWeek struct {
	Week     WeekKey
	NurseIDs []string
}

// SpecialEvent is a named engagement for a set of nurses over a date range.
// An explicit time window takes precedence over category-based duration rules
// and is exempt from reduction-rule adjustments.
type SpecialEvent struct {
	Name     string
	From     time.Time
	To       time.Time
	NurseIDs []string
	Window   string
}

// Covers reports whether the event applies to the nurse on the date.
func (e SpecialEvent) Covers(nurseID string, date time.Time) bool {
	if date.Before(e.From) || date.After(e.To) {
		return false
	}
	for _, id := range e.NurseIDs {
		if id == nurseID {
			return true
		}
	}
	return false
}
