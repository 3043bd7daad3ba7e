package engine

import (
	"sort"
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// Vaccination-day sizing and split windows.
const (
	vaccinationGroupSize = 4
	vaccinationAMSize    = 2

	// smallPoolThreshold: below this many free nurses the default floor
	// needs collapse to one unit per floor line
	smallPoolThreshold = 7

	vaccMorningWindow    = "08:00-12:30"
	vaccAMWindow         = "08:00-12:00"
	vaccPMWindow         = "15:30-19:30"
	vaccComplementWindow = "13:00-17:00"
)

// IsVaccinationDay reports whether the standard flow is replaced by the
// vaccination allocation for this date: a working Monday through Thursday
// inside the campaign window.
func IsVaccinationDay(date time.Time, cal *Calendar, window *DateRange) bool {
	if window == nil || !window.Contains(date) {
		return false
	}
	if cal.IsOffDay(date) {
		return false
	}
	wd := date.Weekday()
	return wd >= time.Monday && wd <= time.Thursday
}

// AllocateVaccinationDay replaces the standard need-resolution-and-allocation
// flow on campaign weekdays:
//
//  1. Default floor needs drop to one unit per line when the free pool is
//     small.
//  2. Up to four pool members go on vaccination duty, preferring the lowest
//     cumulative AM+PM count.
//  3. Up to two of those take the AM slot (lowest AM count first); the rest
//     take PM. Evening-ineligible nurses never land in the PM group.
//  4. Vaccination members get split cells; PM members' mornings cover
//     whichever floor line they are behind on, within remaining need.
//  5. The rest of the pool goes through the standard allocator, leftovers to
//     admin.
//  6. If both vaccination halves reach their minimum but a floor minimum is
//     unmet and the lead nurse sits on admin, the lead is re-routed.
func (a *Allocator) AllocateVaccinationDay(day *dayState, cal *Calendar, roster []model.Nurse) []model.ShiftCategory {
	needs := Needs{
		model.FloorA:        2,
		model.FloorB:        2,
		model.FloorAEvening: 1,
		model.FloorBEvening: 1,
	}
	if len(day.pool) < smallPoolThreshold {
		needs[model.FloorA] = 1
		needs[model.FloorB] = 1
	}

	vaccGroup := a.selectVaccinationGroup(day)
	amGroup, pmGroup := a.splitVaccinationGroup(day, vaccGroup)

	for _, nurse := range amGroup {
		day.assign(nurse.ID, model.SplitCell(
			model.CustomCell(model.VaccinationAM.Label(), model.VaccinationAM, vaccAMWindow),
			model.CustomCell(model.ComplementShort.Label(), model.ComplementShort, vaccComplementWindow),
		))
		day.removeFromPool(nurse.ID)
	}

	for _, nurse := range pmGroup {
		morning := a.morningFloorFor(nurse, needs)
		if needs[morning] > 0 {
			needs[morning]--
		}
		day.assign(nurse.ID, model.SplitCell(
			model.CustomCell(morning.Label(), morning, vaccMorningWindow),
			model.CustomCell(model.VaccinationPM.Label(), model.VaccinationPM, vaccPMWindow),
		))
		day.removeFromPool(nurse.ID)
	}

	unfilled := a.FillNeeds(day, needs)
	a.DefaultLeftovers(day)

	a.backfillFloorMinimum(day, roster)

	return unfilled
}

// selectVaccinationGroup picks up to four pool members with the lowest
// cumulative vaccination load.
func (a *Allocator) selectVaccinationGroup(day *dayState) []model.Nurse {
	candidates := append([]model.Nurse(nil), day.pool...)
	sort.Slice(candidates, func(i, j int) bool {
		ci := a.stats.Totals(candidates[i].ID)
		cj := a.stats.Totals(candidates[j].ID)
		if ci.VaccAM+ci.VaccPM != cj.VaccAM+cj.VaccPM {
			return ci.VaccAM+ci.VaccPM < cj.VaccAM+cj.VaccPM
		}
		return candidates[i].Order < candidates[j].Order
	})
	if len(candidates) > vaccinationGroupSize {
		candidates = candidates[:vaccinationGroupSize]
	}
	return candidates
}

// splitVaccinationGroup divides the vaccination group into its AM and PM
// halves. Evening-ineligible members must take AM; the AM slots top up by
// lowest AM count; everyone else takes PM. Ineligible members beyond the AM
// capacity fall back to the clinical group.
func (a *Allocator) splitVaccinationGroup(day *dayState, group []model.Nurse) (am, pm []model.Nurse) {
	var forced, eligible []model.Nurse
	for _, nurse := range group {
		if EveningIneligible(a.rules, nurse.ID, day.date) {
			forced = append(forced, nurse)
		} else {
			eligible = append(eligible, nurse)
		}
	}

	byAMCount := func(nurses []model.Nurse) {
		sort.Slice(nurses, func(i, j int) bool {
			ai := a.stats.Totals(nurses[i].ID).VaccAM
			aj := a.stats.Totals(nurses[j].ID).VaccAM
			if ai != aj {
				return ai < aj
			}
			return nurses[i].Order < nurses[j].Order
		})
	}
	byAMCount(forced)
	byAMCount(eligible)

	for _, nurse := range forced {
		if len(am) < vaccinationAMSize {
			am = append(am, nurse)
		}
		// An ineligible member past the AM capacity simply stays in the
		// clinical pool.
	}
	for _, nurse := range eligible {
		if len(am) < vaccinationAMSize {
			am = append(am, nurse)
		} else {
			pm = append(pm, nurse)
		}
	}
	return am, pm
}

// morningFloorFor picks the floor line the nurse is behind on for a PM
// member's morning half, preferring lines with remaining need.
func (a *Allocator) morningFloorFor(nurse model.Nurse, needs Needs) model.ShiftCategory {
	c := a.stats.Totals(nurse.ID)
	first, second := model.FloorA, model.FloorB
	if c.FloorB < c.FloorA {
		first, second = model.FloorB, model.FloorA
	}
	if needs[first] == 0 && needs[second] > 0 {
		return second
	}
	return first
}

// backfillFloorMinimum re-routes the lead nurse off admin duty into an unmet
// floor line once both vaccination halves have their minimum coverage.
func (a *Allocator) backfillFloorMinimum(day *dayState, roster []model.Nurse) {
	if countCategory(day, model.VaccinationAM) < vaccinationAMSize ||
		countCategory(day, model.VaccinationPM) < vaccinationAMSize {
		return
	}

	var lead model.Nurse
	for _, nurse := range roster {
		if nurse.Role == model.RoleLead {
			lead = nurse
			break
		}
	}
	if lead.ID == "" {
		return
	}
	cell, ok := day.cells[lead.ID]
	if !ok || day.overridden[lead.ID] {
		return
	}
	if cat, ok := cell.CategoryTag(); !ok || cat != model.Admin {
		return
	}

	for _, cat := range []model.ShiftCategory{
		model.FloorA, model.FloorB, model.FloorAEvening, model.FloorBEvening,
	} {
		if countCategory(day, cat) < 1 {
			day.assign(lead.ID, model.CategoryCell(cat))
			return
		}
	}
}

// countCategory tallies cells standing for a category, counting split halves.
func countCategory(day *dayState, cat model.ShiftCategory) int {
	count := 0
	for _, cell := range day.cells {
		if cell.HasCategory(cat) {
			count++
		}
	}
	return count
}
