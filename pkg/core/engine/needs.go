package engine

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// Needs maps a shift category to the headcount required on one date.
type Needs map[model.ShiftCategory]int

// needOrder fixes the order in which open needs are filled: day floors first,
// then evenings, then the short complement, then vaccination slots. Ranking
// within a category is fairness-driven; this order only decides which
// category draws from the pool first.
var needOrder = []model.ShiftCategory{
	model.FloorA,
	model.FloorB,
	model.FloorAEvening,
	model.FloorBEvening,
	model.ComplementShort,
	model.VaccinationAM,
	model.VaccinationPM,
}

// Units expands the need map into a flat list of single assignment slots,
// in needOrder.
func (n Needs) Units() []model.ShiftCategory {
	var units []model.ShiftCategory
	for _, cat := range needOrder {
		for i := 0; i < n[cat]; i++ {
			units = append(units, cat)
		}
	}
	return units
}

// Total returns the summed headcount over all categories.
func (n Needs) Total() int {
	total := 0
	for _, count := range n {
		total += count
	}
	return total
}

// ResolveNeeds computes the per-category headcount requirement for one date.
// Rules are evaluated in order, first match wins:
//
//  1. Weekend, public holiday or CLOSED week: no need at all.
//  2. Ordinary Friday: 3+3 day floors, plus vaccination slots in campaign.
//  3. Pre-session Friday: 2+2 day floors, 1+1 evenings, 1 short complement,
//     plus vaccination slots in campaign.
//  4. REDUCED week, non-Friday: 2+2 day floors only.
//  5. Default: 2+2 day floors, 1+1 evenings.
//
// Unrecognized activity levels behave as NORMAL.
func ResolveNeeds(date time.Time, cal *Calendar, vaccination *DateRange) Needs {
	if cal.IsOffDay(date) {
		return Needs{}
	}

	inCampaign := vaccination != nil && vaccination.Contains(date)

	if date.Weekday() == time.Friday {
		needs := Needs{}
		if cal.IsPreSessionFriday(date) {
			needs[model.FloorA] = 2
			needs[model.FloorB] = 2
			needs[model.FloorAEvening] = 1
			needs[model.FloorBEvening] = 1
			needs[model.ComplementShort] = 1
		} else {
			needs[model.FloorA] = 3
			needs[model.FloorB] = 3
		}
		if inCampaign {
			needs[model.VaccinationAM] = 1
			needs[model.VaccinationPM] = 1
		}
		return needs
	}

	if cal.Level(date) == model.ActivityReduced {
		return Needs{
			model.FloorA: 2,
			model.FloorB: 2,
		}
	}

	return Needs{
		model.FloorA:        2,
		model.FloorB:        2,
		model.FloorAEvening: 1,
		model.FloorBEvening: 1,
	}
}
