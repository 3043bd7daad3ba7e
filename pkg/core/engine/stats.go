package engine

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// Counts is the cumulative per-nurse tally the fairness ranking reads.
type Counts struct {
	FloorA   int
	FloorB   int
	Admin    int
	Training int

	// Clinical is the overall clinical-load count across clinical categories
	Clinical int

	Evening int
	VaccAM  int
	VaccPM  int
}

// Stats is the per-run accumulator. It is created fresh for a generation run,
// mutated in chronological day order, and discarded at the end. Weekly tallies
// reset on Monday boundaries.
type Stats struct {
	totals map[string]*Counts

	week           model.WeekKey
	weekly         map[string]map[model.ShiftCategory]int
	weeklyTraining map[string]int

	// rotationIdx is the persistent per-category round-robin cursor used by
	// the rotation policy's tie-break
	rotationIdx map[model.ShiftCategory]int
}

// NewStats returns an empty accumulator.
func NewStats() *Stats {
	return &Stats{
		totals:         make(map[string]*Counts),
		weekly:         make(map[string]map[model.ShiftCategory]int),
		weeklyTraining: make(map[string]int),
		rotationIdx:    make(map[model.ShiftCategory]int),
	}
}

// StartDay rolls the weekly tallies over when date enters a new ISO week.
func (s *Stats) StartDay(date time.Time) {
	week := model.WeekKeyFor(date)
	if week == s.week {
		return
	}
	s.week = week
	s.weekly = make(map[string]map[model.ShiftCategory]int)
	s.weeklyTraining = make(map[string]int)
}

// Totals returns the cumulative counts for a nurse, creating them if needed.
func (s *Stats) Totals(nurseID string) *Counts {
	c, ok := s.totals[nurseID]
	if !ok {
		c = &Counts{}
		s.totals[nurseID] = c
	}
	return c
}

// WeeklyCount returns how many times the nurse held exactly this category in
// the current ISO week.
func (s *Stats) WeeklyCount(nurseID string, cat model.ShiftCategory) int {
	return s.weekly[nurseID][cat]
}

// WeeklyTraining returns the nurse's training assignments in the current week.
func (s *Stats) WeeklyTraining(nurseID string) int {
	return s.weeklyTraining[nurseID]
}

// NextRotation advances the round-robin cursor for a category and returns the
// previous value.
func (s *Stats) NextRotation(cat model.ShiftCategory) int {
	idx := s.rotationIdx[cat]
	s.rotationIdx[cat] = idx + 1
	return idx
}

// PrimaryStat returns the cumulative count the ranking's first key reads for
// a category: the parent floor line for floor variants, the exact tally for
// admin, training and vaccination, overall clinical load otherwise.
func (s *Stats) PrimaryStat(nurseID string, cat model.ShiftCategory) int {
	c := s.Totals(nurseID)
	switch cat {
	case model.FloorA, model.FloorAEvening:
		return c.FloorA
	case model.FloorB, model.FloorBEvening:
		return c.FloorB
	case model.Admin, model.AdminEvening:
		return c.Admin
	case model.Training, model.TrainingAbroad:
		return c.Training
	case model.VaccinationAM:
		return c.VaccAM
	case model.VaccinationPM:
		return c.VaccPM
	}
	return c.Clinical
}

// Record folds one finished cell into the tallies. Split cells contribute both
// halves; absence codes contribute nothing.
func (s *Stats) Record(nurseID string, cell model.ScheduleCell) {
	if morning, afternoon, ok := cell.Halves(); ok {
		s.Record(nurseID, morning)
		s.Record(nurseID, afternoon)
		return
	}
	cat, ok := cell.CategoryTag()
	if !ok || cat.IsAbsence() {
		return
	}

	c := s.Totals(nurseID)
	switch cat {
	case model.FloorA, model.FloorAEvening:
		c.FloorA++
	case model.FloorB, model.FloorBEvening:
		c.FloorB++
	case model.Admin, model.AdminEvening:
		c.Admin++
	case model.Training, model.TrainingAbroad:
		c.Training++
		s.weeklyTraining[nurseID]++
	case model.VaccinationAM:
		c.VaccAM++
	case model.VaccinationPM:
		c.VaccPM++
	}
	if cat.IsClinical() {
		c.Clinical++
	}
	if cat.IsEvening() {
		c.Evening++
	}

	byCat, ok := s.weekly[nurseID]
	if !ok {
		byCat = make(map[model.ShiftCategory]int)
		s.weekly[nurseID] = byCat
	}
	byCat[cat]++
}
