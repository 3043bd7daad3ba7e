// Package engine generates duty rosters for a fixed nursing team over a
// calendar range. A run is a pure function of its inputs: days are folded in
// chronological order against a per-run accumulator, so per-week tallies reset
// on Monday boundaries and each day's fairness ranking sees the state through
// the previous day.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuriabp/ambulatori-rota/pkg/core/hours"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// Inputs is everything a generation run consumes, immutable for the run.
type Inputs struct {
	Roster []model.Nurse

	From time.Time
	To   time.Time

	Agenda model.Agenda

	// Overrides are manually fixed cells, taken verbatim
	Overrides model.Schedule

	// Vaccination is the campaign window, nil when no campaign is running
	Vaccination *DateRange

	Rotations      []model.RotationWeek
	ReductionRules []model.ReductionRule
	SpecialEvents  []model.SpecialEvent

	HolidayDates []time.Time
	HolidayRules []string

	SeasonalExceptions []SeasonalException

	// SecondPriorityID names the nurse excluded from training promotion
	// alongside the lead
	SecondPriorityID string
}

// Options selects the allocation policy and its randomness source.
type Options struct {
	Policy Policy

	// Rand backs the equity policy's tie-break. Nil falls back to the first
	// candidate by display order, which keeps rotation-policy runs and
	// unseeded tests deterministic.
	Rand *rand.Rand

	Logger *zap.Logger
}

// UnfilledNeed reports a need unit the pool could not cover. Unmet needs are
// dropped from the schedule, not escalated; this is the run's record of them.
type UnfilledNeed struct {
	Date     model.DateKey
	Category model.ShiftCategory
}

// HourProblem reports a cell whose hours could not be computed, most often an
// unparseable time window in a manual override.
type HourProblem struct {
	NurseID string
	Date    model.DateKey
	Err     string
}

// Result is the output of one generation run.
type Result struct {
	RunID    string
	Schedule model.Schedule
	Hours    model.Hours

	Unfilled     []UnfilledNeed
	HourProblems []HourProblem
}

// Generate runs the engine over [From, To].
func Generate(inputs Inputs, opts Options) (*Result, error) {
	if inputs.To.Before(inputs.From) {
		return nil, errors.New("generation range ends before it starts")
	}
	if len(inputs.Roster) == 0 {
		return nil, errors.New("empty roster")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cal, err := NewCalendar(inputs.Agenda, inputs.HolidayDates, inputs.HolidayRules, inputs.From, inputs.To)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}

	result := &Result{
		RunID:    uuid.New().String(),
		Schedule: make(model.Schedule),
		Hours:    make(model.Hours),
	}

	stats := NewStats()
	allocator := NewAllocator(opts.Policy, stats, inputs.ReductionRules, opts.Rand)

	logger.Debug("starting generation run",
		zap.String("run_id", result.RunID),
		zap.Time("from", inputs.From),
		zap.Time("to", inputs.To),
		zap.Int("roster_size", len(inputs.Roster)))

	var prevCells map[string]model.ScheduleCell

	for date := inputs.From; !date.After(inputs.To); date = date.AddDate(0, 0, 1) {
		prevCells = generateDay(date, inputs, cal, stats, allocator, prevCells, result)
	}

	logger.Info("generation run finished",
		zap.String("run_id", result.RunID),
		zap.Int("unfilled_needs", len(result.Unfilled)),
		zap.Int("hour_problems", len(result.HourProblems)))

	return result, nil
}

// generateDay runs the daily pipeline for one date and returns the day's
// finished cells for the next day's promotion pass.
func generateDay(date time.Time, inputs Inputs, cal *Calendar, stats *Stats, allocator *Allocator, prevCells map[string]model.ScheduleCell, result *Result) map[string]model.ScheduleCell {
	day := newDayState(date, cal.Level(date))

	if cal.IsOffDay(date) {
		// No duty at all; manual overrides (vacations spanning a weekend,
		// special engagements) still carry through verbatim.
		for _, nurse := range inputs.Roster {
			if cell, ok := inputs.Overrides.Get(nurse.ID, day.key); ok {
				day.assign(nurse.ID, cell)
				day.overridden[nurse.ID] = true
			}
		}
		storeDay(day, inputs, cal, result)
		return day.cells
	}

	stats.StartDay(date)

	buildPool(day, inputs.Roster, inputs.Overrides, inputs.Rotations, inputs.SeasonalExceptions)

	var unfilled []model.ShiftCategory
	if IsVaccinationDay(date, cal, inputs.Vaccination) {
		unfilled = allocator.AllocateVaccinationDay(day, cal, inputs.Roster)
	} else {
		needs := ResolveNeeds(date, cal, inputs.Vaccination)
		unfilled = allocator.FillNeeds(day, needs)
		allocator.DefaultLeftovers(day)
	}
	for _, cat := range unfilled {
		result.Unfilled = append(result.Unfilled, UnfilledNeed{Date: day.key, Category: cat})
	}

	PromoteTraining(day, prevCells, inputs.Roster, stats, inputs.SecondPriorityID)

	ApplyReductions(day, cal, inputs.ReductionRules)

	for nurseID, cell := range day.cells {
		stats.Record(nurseID, cell)
	}

	storeDay(day, inputs, cal, result)
	return day.cells
}

// storeDay writes the day's cells into the result schedule and computes their
// net hours.
func storeDay(day *dayState, inputs Inputs, cal *Calendar, result *Result) {
	for _, nurse := range inputs.Roster {
		cell, ok := day.cells[nurse.ID]
		if !ok {
			continue
		}
		result.Schedule.Set(nurse.ID, day.key, cell)

		net, err := hours.Net(cell, hours.Context{
			Nurse:  nurse,
			Date:   day.date,
			Kind:   cal.DayKind(day.date),
			Level:  day.level,
			OffDay: cal.IsOffDay(day.date),
			Rules:  inputs.ReductionRules,
			Events: inputs.SpecialEvents,
		})
		if err != nil {
			result.HourProblems = append(result.HourProblems, HourProblem{
				NurseID: nurse.ID,
				Date:    day.key,
				Err:     err.Error(),
			})
			continue
		}
		result.Hours.Set(nurse.ID, day.key, net)
	}
}
