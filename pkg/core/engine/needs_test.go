package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

func TestResolveNeeds_OffDaysAreEmpty(t *testing.T) {
	cal := testCalendar(t, model.Agenda{"2026-W03": model.ActivityClosed})

	saturday := testMonday.AddDate(0, 0, 5)
	assert.Empty(t, ResolveNeeds(saturday, cal, nil))

	closedMonday := testMonday.AddDate(0, 0, 7)
	assert.Empty(t, ResolveNeeds(closedMonday, cal, nil))
}

func TestResolveNeeds_OrdinaryFriday(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})

	needs := ResolveNeeds(testFriday, cal, nil)
	assert.Equal(t, Needs{
		model.FloorA: 3,
		model.FloorB: 3,
	}, needs)
}

func TestResolveNeeds_OrdinaryFridayInCampaign(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	window := &DateRange{From: testMonday, To: testMonday.AddDate(0, 1, 0)}

	needs := ResolveNeeds(testFriday, cal, window)
	assert.Equal(t, Needs{
		model.FloorA:        3,
		model.FloorB:        3,
		model.VaccinationAM: 1,
		model.VaccinationPM: 1,
	}, needs)
}

func TestResolveNeeds_PreSessionFriday(t *testing.T) {
	cal := testCalendar(t, model.Agenda{"2026-W03": model.ActivitySession})

	needs := ResolveNeeds(testFriday, cal, nil)
	assert.Equal(t, Needs{
		model.FloorA:          2,
		model.FloorB:          2,
		model.FloorAEvening:   1,
		model.FloorBEvening:   1,
		model.ComplementShort: 1,
	}, needs)
}

func TestResolveNeeds_ReducedWeek(t *testing.T) {
	cal := testCalendar(t, model.Agenda{"2026-W02": model.ActivityReduced})

	needs := ResolveNeeds(testMonday, cal, nil)
	assert.Equal(t, Needs{
		model.FloorA: 2,
		model.FloorB: 2,
	}, needs)
}

func TestResolveNeeds_Default(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})

	needs := ResolveNeeds(testMonday, cal, nil)
	assert.Equal(t, Needs{
		model.FloorA:        2,
		model.FloorB:        2,
		model.FloorAEvening: 1,
		model.FloorBEvening: 1,
	}, needs)
}

func TestNeeds_Units(t *testing.T) {
	needs := Needs{
		model.FloorA:        2,
		model.FloorB:        1,
		model.FloorAEvening: 1,
	}

	units := needs.Units()
	assert.Equal(t, []model.ShiftCategory{
		model.FloorA, model.FloorA, model.FloorB, model.FloorAEvening,
	}, units)
	assert.Equal(t, 4, needs.Total())
}
