package engine

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// SeasonalException pins one nurse to hard-coded categories during a specific
// month, keyed by week-of-month. Used for seasonal roles such as a resident
// covering a fixed program.
type SeasonalException struct {
	NurseID       string
	Month         time.Month
	ByWeekOfMonth map[int]model.ShiftCategory
}

// dayState is the working state for one calendar day of a generation run.
type dayState struct {
	date time.Time
	key  model.DateKey
	week model.WeekKey

	level   model.ActivityLevel
	session bool

	// cells holds the day's finished and committed assignments
	cells map[string]model.ScheduleCell

	// overridden marks nurses whose cell came from a manual override; the
	// reduction transformer skips them
	overridden map[string]bool

	// pool is the remaining candidate roster for the allocator
	pool []model.Nurse
}

func newDayState(date time.Time, level model.ActivityLevel) *dayState {
	return &dayState{
		date:       date,
		key:        model.DateKeyFor(date),
		week:       model.WeekKeyFor(date),
		level:      level,
		session:    level == model.ActivitySession,
		cells:      make(map[string]model.ScheduleCell),
		overridden: make(map[string]bool),
	}
}

// assign records a cell and keeps the nurse out of the pool.
func (d *dayState) assign(nurseID string, cell model.ScheduleCell) {
	d.cells[nurseID] = cell
}

// buildPool removes already-committed nurses from the roster, recording their
// cells directly into the day, and leaves the rest as the duty pool. Removal
// order: manual overrides, off-site rotation commitments (session weeks only),
// seasonal exceptions, then the lead nurse to admin duty outside session
// weeks.
func buildPool(day *dayState, roster []model.Nurse, overrides model.Schedule, rotations []model.RotationWeek, exceptions []SeasonalException) {
	committed := make(map[string]bool)
	for _, rw := range rotations {
		if rw.Week != day.week {
			continue
		}
		for _, id := range rw.NurseIDs {
			committed[id] = true
		}
	}

	day.pool = day.pool[:0]

	for _, nurse := range roster {
		if cell, ok := overrides.Get(nurse.ID, day.key); ok {
			day.assign(nurse.ID, cell)
			day.overridden[nurse.ID] = true
			continue
		}

		if day.session && committed[nurse.ID] {
			switch day.date.Weekday() {
			case time.Friday:
				day.assign(nurse.ID, model.CategoryCell(model.OffsitePrep))
			default:
				day.assign(nurse.ID, model.CategoryCell(model.Offsite))
			}
			continue
		}

		if cat, ok := seasonalCategory(exceptions, nurse.ID, day.date); ok {
			day.assign(nurse.ID, model.CategoryCell(cat))
			continue
		}

		if nurse.Role == model.RoleLead && !day.session {
			day.assign(nurse.ID, model.CategoryCell(model.Admin))
			continue
		}

		day.pool = append(day.pool, nurse)
	}
}

func seasonalCategory(exceptions []SeasonalException, nurseID string, date time.Time) (model.ShiftCategory, bool) {
	for _, ex := range exceptions {
		if ex.NurseID != nurseID || ex.Month != date.Month() {
			continue
		}
		cat, ok := ex.ByWeekOfMonth[WeekOfMonth(date)]
		if !ok {
			return "", false
		}
		return cat, true
	}
	return "", false
}

// removeFromPool drops a nurse from the day's pool.
func (d *dayState) removeFromPool(nurseID string) {
	for i, nurse := range d.pool {
		if nurse.ID == nurseID {
			d.pool = append(d.pool[:i], d.pool[i+1:]...)
			return
		}
	}
}
