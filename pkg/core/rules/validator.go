// Package rules is the independent read-only pass flagging schedule rule
// violations. It never fails; findings come back as RuleViolation records for
// the caller to surface.
package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/engine"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// weeklyEveningLimit is the most evening or PM-vaccination assignments one
// nurse may hold in an ISO week.
const weeklyEveningLimit = 2

// minimum per-day coverage checked on vaccination days
const (
	minEveningFloor  = 1
	minVaccinationAM = 2
	minVaccinationPM = 2
)

// Validate inspects a finished schedule over [from, to] and returns the
// deduplicated list of rule violations. Weekends, holidays and CLOSED weeks
// are skipped.
func Validate(schedule model.Schedule, roster []model.Nurse, cal *engine.Calendar, from, to time.Time) []model.RuleViolation {
	var violations []model.RuleViolation

	eveningPerWeek := make(map[model.WeekKey]map[string]int)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if cal.IsOffDay(date) {
			continue
		}
		key := model.DateKeyFor(date)
		week := model.WeekKeyFor(date)

		vaccinationDay := false
		amCount, pmCount := 0, 0
		floorCoverage := make(map[model.ShiftCategory]int)

		for _, nurse := range roster {
			cell, ok := schedule.Get(nurse.ID, key)
			if !ok {
				continue
			}

			violations = append(violations, checkVaccinationShape(nurse.ID, key, cell)...)

			if cell.HasCategory(model.VaccinationAM) {
				vaccinationDay = true
				amCount++
			}
			if cell.HasCategory(model.VaccinationPM) {
				vaccinationDay = true
				pmCount++
			}
			for _, cat := range []model.ShiftCategory{
				model.FloorAEvening, model.FloorBEvening,
			} {
				if cell.HasCategory(cat) {
					floorCoverage[cat]++
				}
			}

			if countsTowardEveningLimit(cell) {
				byNurse, ok := eveningPerWeek[week]
				if !ok {
					byNurse = make(map[string]int)
					eveningPerWeek[week] = byNurse
				}
				byNurse[nurse.ID]++
			}
		}

		if vaccinationDay {
			violations = append(violations, checkVaccinationCoverage(key, amCount, pmCount, floorCoverage)...)
		}
	}

	weeks := make([]model.WeekKey, 0, len(eveningPerWeek))
	for week := range eveningPerWeek {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	for _, week := range weeks {
		byNurse := eveningPerWeek[week]
		nurseIDs := make([]string, 0, len(byNurse))
		for nurseID := range byNurse {
			nurseIDs = append(nurseIDs, nurseID)
		}
		sort.Strings(nurseIDs)

		for _, nurseID := range nurseIDs {
			if count := byNurse[nurseID]; count > weeklyEveningLimit {
				violations = append(violations, model.RuleViolation{
					NurseID:  nurseID,
					Severity: model.SeverityError,
					Week:     week,
					Message:  fmt.Sprintf("%d evening assignments in one week exceed the limit of %d", count, weeklyEveningLimit),
				})
			}
		}
	}

	return model.DedupViolations(violations)
}

// checkVaccinationShape flags vaccination assignments that are not one half
// of a well-formed two-part split.
func checkVaccinationShape(nurseID string, date model.DateKey, cell model.ScheduleCell) []model.RuleViolation {
	isVacc := func(c model.ScheduleCell) bool {
		cat, ok := c.CategoryTag()
		return ok && (cat == model.VaccinationAM || cat == model.VaccinationPM)
	}

	bad := false
	switch cell.Kind {
	case model.KindSplit:
		morning, afternoon, ok := cell.Halves()
		carriesVacc := cell.HasCategory(model.VaccinationAM) || cell.HasCategory(model.VaccinationPM)
		if !ok {
			// Split missing a half; only a problem when it was meant to
			// carry vaccination duty.
			bad = carriesVacc
		} else if morning.Kind == model.KindSplit || afternoon.Kind == model.KindSplit {
			// Nested splits are never well-formed.
			bad = carriesVacc
		}
	default:
		bad = isVacc(cell)
	}

	if !bad {
		return nil
	}
	return []model.RuleViolation{{
		NurseID:  nurseID,
		Severity: model.SeverityError,
		Date:     date,
		Message:  "vaccination assignment is not part of a two-part split cell",
	}}
}

// checkVaccinationCoverage fires the minimum-coverage checks on a day that
// carries at least one vaccination assignment.
func checkVaccinationCoverage(date model.DateKey, amCount, pmCount int, floorCoverage map[model.ShiftCategory]int) []model.RuleViolation {
	var violations []model.RuleViolation

	for _, cat := range []model.ShiftCategory{model.FloorAEvening, model.FloorBEvening} {
		if floorCoverage[cat] < minEveningFloor {
			violations = append(violations, model.RuleViolation{
				NurseID:  model.GlobalNurseID,
				Severity: model.SeverityError,
				Date:     date,
				Message:  fmt.Sprintf("no %s coverage on a vaccination day", cat.Label()),
			})
		}
	}
	if amCount < minVaccinationAM {
		violations = append(violations, model.RuleViolation{
			NurseID:  model.GlobalNurseID,
			Severity: model.SeverityWarning,
			Date:     date,
			Message:  fmt.Sprintf("vaccination AM coverage below %d", minVaccinationAM),
		})
	}
	if pmCount < minVaccinationPM {
		violations = append(violations, model.RuleViolation{
			NurseID:  model.GlobalNurseID,
			Severity: model.SeverityWarning,
			Date:     date,
			Message:  fmt.Sprintf("vaccination PM coverage below %d", minVaccinationPM),
		})
	}
	return violations
}

// countsTowardEveningLimit reports whether a cell adds to the weekly evening
// tally: evening categories and the PM vaccination half.
func countsTowardEveningLimit(cell model.ScheduleCell) bool {
	if cell.HasCategory(model.VaccinationPM) {
		return true
	}
	for _, cat := range []model.ShiftCategory{
		model.FloorAEvening, model.FloorBEvening, model.AdminEvening,
	} {
		if cell.HasCategory(cat) {
			return true
		}
	}
	return false
}
