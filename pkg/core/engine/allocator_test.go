package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

func staffOnly(n int) []model.Nurse {
	roster := make([]model.Nurse, n)
	for i := range roster {
		roster[i] = model.Nurse{
			ID:    string(rune('a' + i)),
			Name:  "Nurse " + string(rune('A'+i)),
			Order: i + 1,
			Role:  model.RoleStaff,
		}
	}
	return roster
}

func TestFillNeeds_AssignsTopRanked(t *testing.T) {
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	roster := staffOnly(4)
	// Nurse "a" is well ahead on floor A; the others are level.
	stats.Totals("a").FloorA = 5

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, roster...)

	unfilled := a.FillNeeds(day, Needs{model.FloorA: 1})
	assert.Empty(t, unfilled)

	// "a" must not win the slot; the rotation cursor picks "b" from the tie.
	cell, ok := day.cells["b"]
	require.True(t, ok)
	assert.Equal(t, model.CategoryCell(model.FloorA), cell)
}

func TestFillNeeds_EmptyPoolLeavesNeedUnfilled(t *testing.T) {
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)

	unfilled := a.FillNeeds(day, Needs{model.FloorA: 2})
	assert.Equal(t, []model.ShiftCategory{model.FloorA, model.FloorA}, unfilled)
	assert.Empty(t, day.cells)
}

// Equity property: after N days with an identical single-unit need over an
// otherwise idle pool, cumulative counts differ by at most 1 across the pool.
func TestEquityPolicy_BalancesSingleUnitNeed(t *testing.T) {
	roster := staffOnly(5)
	stats := NewStats()
	a := NewAllocator(PolicyEquity, stats, nil, rand.New(rand.NewSource(42)))

	date := testMonday
	for i := 0; i < 23; i++ {
		if IsWeekend(date) {
			date = date.AddDate(0, 0, 1)
			continue
		}
		stats.StartDay(date)
		day := newDayState(date, model.ActivityNormal)
		day.pool = append(day.pool, roster...)

		unfilled := a.FillNeeds(day, Needs{model.FloorA: 1})
		require.Empty(t, unfilled)
		for nurseID, cell := range day.cells {
			stats.Record(nurseID, cell)
		}
		date = date.AddDate(0, 0, 1)
	}

	minCount, maxCount := 1<<30, -1
	for _, nurse := range roster {
		c := stats.Totals(nurse.ID).FloorA
		if c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
	}
	assert.LessOrEqual(t, maxCount-minCount, 1)
}

// Rotation property: two separate simulations with identical inputs produce
// identical assignments.
func TestRotationPolicy_Deterministic(t *testing.T) {
	run := func() map[model.DateKey]map[string]model.ScheduleCell {
		roster := staffOnly(8)
		stats := NewStats()
		a := NewAllocator(PolicyRotation, stats, nil, nil)

		out := make(map[model.DateKey]map[string]model.ScheduleCell)
		date := testMonday
		for i := 0; i < 12; i++ {
			if IsWeekend(date) {
				date = date.AddDate(0, 0, 1)
				continue
			}
			stats.StartDay(date)
			day := newDayState(date, model.ActivityNormal)
			day.pool = append(day.pool, roster...)

			a.FillNeeds(day, Needs{
				model.FloorA:        2,
				model.FloorB:        2,
				model.FloorAEvening: 1,
				model.FloorBEvening: 1,
			})
			a.DefaultLeftovers(day)
			for nurseID, cell := range day.cells {
				stats.Record(nurseID, cell)
			}
			out[day.key] = day.cells
			date = date.AddDate(0, 0, 1)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestEligible_EveningFilteredByReductionRule(t *testing.T) {
	rules := []model.ReductionRule{{
		NurseID: "a",
		Percent: 90,
		From:    testMonday.AddDate(0, 0, -7),
		To:      testMonday.AddDate(0, 1, 0),
		Option:  model.LeaveEarlyMonThu,
	}}

	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, rules, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, staffOnly(2)...)

	// Nurse "a" leaves early Monday through Thursday: no evening duty.
	eligible := a.eligible(day, model.FloorAEvening)
	require.Len(t, eligible, 1)
	assert.Equal(t, "b", eligible[0].ID)

	// Day variants are unaffected.
	assert.Len(t, a.eligible(day, model.FloorA), 2)

	// Fridays are unaffected by the Mon-Thu rule.
	friday := newDayState(testFriday, model.ActivityNormal)
	friday.pool = append(friday.pool, staffOnly(2)...)
	assert.Len(t, a.eligible(friday, model.FloorAEvening), 2)
}

func TestEveningIneligible_Options(t *testing.T) {
	base := model.ReductionRule{
		NurseID: "n1",
		Percent: 80,
		From:    testMonday.AddDate(0, 0, -7),
		To:      testMonday.AddDate(0, 1, 0),
	}

	fullOff := base
	fullOff.Option = model.FullDayOff
	fullOff.Weekdays = []time.Weekday{time.Monday}
	assert.True(t, EveningIneligible([]model.ReductionRule{fullOff}, "n1", testMonday))
	assert.False(t, EveningIneligible([]model.ReductionRule{fullOff}, "n1", testMonday.AddDate(0, 0, 1)))

	endCut := base
	endCut.Percent = 90
	endCut.Option = model.ShortenEnd3h
	endCut.Weekdays = []time.Weekday{time.Tuesday}
	assert.True(t, EveningIneligible([]model.ReductionRule{endCut}, "n1", testMonday.AddDate(0, 0, 1)))
	assert.False(t, EveningIneligible([]model.ReductionRule{endCut}, "n1", testMonday))

	// A start cut leaves the end of the day intact.
	startCut := endCut
	startCut.Option = model.ShortenStart3h
	assert.False(t, EveningIneligible([]model.ReductionRule{startCut}, "n1", testMonday.AddDate(0, 0, 1)))

	fridayRule := base
	fridayRule.Option = model.FridayOffPlusSecondary
	fridayRule.Weekdays = []time.Weekday{time.Wednesday}
	assert.True(t, EveningIneligible([]model.ReductionRule{fridayRule}, "n1", testFriday))
	// The secondary day moves the start for evening cells, not the end.
	assert.False(t, EveningIneligible([]model.ReductionRule{fridayRule}, "n1", testMonday.AddDate(0, 0, 2)))
}

func TestDefaultLeftovers_AdminAndResidentSwap(t *testing.T) {
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool,
		model.Nurse{ID: "s1", Order: 1, Role: model.RoleStaff},
		model.Nurse{ID: "res", Order: 2, Role: model.RoleResident},
	)
	// s2 already holds a floor cell from the needs round.
	day.assign("s2", model.CategoryCell(model.FloorA))
	stats.Totals("s2").Clinical = 3

	a.DefaultLeftovers(day)

	// Plain staff leftover defaults to admin.
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["s1"])
	// The resident takes the floor cell; the donor drops to admin.
	assert.Equal(t, model.CategoryCell(model.FloorA), day.cells["res"])
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["s2"])
}

// With every clinical load tied, the swap donor must not depend on map
// iteration order: repeated identical swaps always pick the same nurse.
func TestDefaultLeftovers_ResidentSwapStableOnTiedLoads(t *testing.T) {
	for i := 0; i < 25; i++ {
		stats := NewStats()
		stats.StartDay(testMonday)
		a := NewAllocator(PolicyRotation, stats, nil, nil)

		day := newDayState(testMonday, model.ActivityNormal)
		day.assign("s1", model.CategoryCell(model.FloorA))
		day.assign("s2", model.CategoryCell(model.FloorB))
		day.assign("s3", model.CategoryCell(model.FloorAEvening))
		day.pool = append(day.pool, model.Nurse{ID: "res", Order: 9, Role: model.RoleResident})

		a.DefaultLeftovers(day)

		assert.Equal(t, model.CategoryCell(model.FloorA), day.cells["res"])
		assert.Equal(t, model.CategoryCell(model.Admin), day.cells["s1"])
		assert.Equal(t, model.CategoryCell(model.FloorB), day.cells["s2"])
	}
}

func TestFillNeeds_PMVaccinationMorningSkipsCoveredFloor(t *testing.T) {
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, staffOnly(2)...)

	// The B floor need is satisfied by its own unit before the vaccination
	// slot fills, so the PM member's morning half must cover the A floor.
	unfilled := a.FillNeeds(day, Needs{model.FloorB: 1, model.VaccinationPM: 1})
	assert.Empty(t, unfilled)

	var pmCell model.ScheduleCell
	found := false
	for _, cell := range day.cells {
		if cell.HasCategory(model.VaccinationPM) {
			pmCell = cell
			found = true
		}
	}
	require.True(t, found)

	morning, _, ok := pmCell.Halves()
	require.True(t, ok)
	assert.Equal(t, model.FloorA, morning.Tag)
}

func TestDefaultLeftovers_ResidentWithoutPartnerStaysUnassigned(t *testing.T) {
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, model.Nurse{ID: "res", Order: 1, Role: model.RoleResident})

	a.DefaultLeftovers(day)

	_, assigned := day.cells["res"]
	assert.False(t, assigned)
}
