package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

func campaignWindow() *DateRange {
	return &DateRange{From: testMonday, To: testMonday.AddDate(0, 1, 0)}
}

func TestIsVaccinationDay(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	window := campaignWindow()

	assert.True(t, IsVaccinationDay(testMonday, cal, window))
	assert.True(t, IsVaccinationDay(testMonday.AddDate(0, 0, 3), cal, window))

	// Fridays keep the standard flow.
	assert.False(t, IsVaccinationDay(testFriday, cal, window))
	// Weekends never become vaccination days.
	assert.False(t, IsVaccinationDay(testMonday.AddDate(0, 0, 5), cal, window))
	// Outside the window nothing changes.
	assert.False(t, IsVaccinationDay(testMonday.AddDate(0, 2, 0), cal, window))
	assert.False(t, IsVaccinationDay(testMonday, cal, nil))
}

func TestAllocateVaccinationDay_SplitShapes(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	roster := staffOnly(9)

	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, roster...)

	unfilled := a.AllocateVaccinationDay(day, cal, roster)
	assert.Empty(t, unfilled)

	amCount := countCategory(day, model.VaccinationAM)
	pmCount := countCategory(day, model.VaccinationPM)
	assert.Equal(t, 2, amCount)
	assert.Equal(t, 2, pmCount)

	// Every vaccination assignment is one half of a two-part split.
	for nurseID, cell := range day.cells {
		if !cell.HasCategory(model.VaccinationAM) && !cell.HasCategory(model.VaccinationPM) {
			continue
		}
		morning, afternoon, ok := cell.Halves()
		require.True(t, ok, "nurse %s", nurseID)

		if cell.HasCategory(model.VaccinationAM) {
			// AM members vaccinate in the morning and cover the short
			// complement in the afternoon.
			assert.Equal(t, model.VaccinationAM, morning.Tag)
			assert.Equal(t, model.ComplementShort, afternoon.Tag)
		} else {
			// PM members cover a floor line in the morning.
			assert.True(t, morning.Tag.IsFloor(), "nurse %s morning %s", nurseID, morning.Tag)
			assert.Equal(t, model.VaccinationPM, afternoon.Tag)
		}
	}

	// The remaining pool covered the floor needs.
	assert.GreaterOrEqual(t, countCategory(day, model.FloorA), 2)
	assert.GreaterOrEqual(t, countCategory(day, model.FloorB), 2)
	assert.Equal(t, 1, countCategory(day, model.FloorAEvening))
	assert.Equal(t, 1, countCategory(day, model.FloorBEvening))
}

func TestAllocateVaccinationDay_SmallPoolReducesFloorNeeds(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	roster := staffOnly(6)

	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, roster...)

	unfilled := a.AllocateVaccinationDay(day, cal, roster)

	// 6 free nurses: 4 vaccinate, 2 remain for clinical duty against the
	// reduced 1+1 floor needs plus the two evening units.
	assert.Equal(t, 2, countCategory(day, model.VaccinationAM))
	assert.Equal(t, 2, countCategory(day, model.VaccinationPM))
	// PM members' morning halves already cover the reduced day floors, so
	// the two clinical nurses take the evening units.
	assert.Empty(t, unfilled)
}

func TestAllocateVaccinationDay_PrefersLowVaccinationCount(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	roster := staffOnly(9)

	stats := NewStats()
	stats.StartDay(testMonday)
	// Nurses a through d carry heavy vaccination history.
	for _, id := range []string{"a", "b", "c", "d"} {
		stats.Totals(id).VaccAM = 4
		stats.Totals(id).VaccPM = 4
	}
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.pool = append(day.pool, roster...)

	a.AllocateVaccinationDay(day, cal, roster)

	for _, id := range []string{"a", "b", "c", "d"} {
		cell := day.cells[id]
		assert.False(t, cell.HasCategory(model.VaccinationAM) || cell.HasCategory(model.VaccinationPM),
			"nurse %s should not vaccinate again", id)
	}
}

func TestAllocateVaccinationDay_EveningIneligibleNeverPM(t *testing.T) {
	cal := testCalendar(t, model.Agenda{})
	roster := staffOnly(9)

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
	day.pool = append(day.pool, roster...)

	a.AllocateVaccinationDay(day, cal, roster)

	cell := day.cells["a"]
	assert.False(t, cell.HasCategory(model.VaccinationPM))
}

func TestBackfillFloorMinimum_ReRoutesLead(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	// Both vaccination halves have minimum coverage.
	day.assign("n2", model.SplitCell(
		model.CustomCell("Vaccination AM", model.VaccinationAM, vaccAMWindow),
		model.CustomCell("Complement", model.ComplementShort, vaccComplementWindow),
	))
	day.assign("n3", model.SplitCell(
		model.CustomCell("Vaccination AM", model.VaccinationAM, vaccAMWindow),
		model.CustomCell("Complement", model.ComplementShort, vaccComplementWindow),
	))
	day.assign("n4", model.SplitCell(
		model.CustomCell("Floor A", model.FloorA, vaccMorningWindow),
		model.CustomCell("Vaccination PM", model.VaccinationPM, vaccPMWindow),
	))
	day.assign("n5", model.SplitCell(
		model.CustomCell("Floor B", model.FloorB, vaccMorningWindow),
		model.CustomCell("Vaccination PM", model.VaccinationPM, vaccPMWindow),
	))
	// Floor coverage exists except the A evening line; the lead is on admin.
	day.assign("n6", model.CategoryCell(model.FloorBEvening))
	day.assign("lead", model.CategoryCell(model.Admin))

	a.backfillFloorMinimum(day, roster)

	assert.Equal(t, model.CategoryCell(model.FloorAEvening), day.cells["lead"])
}

func TestBackfillFloorMinimum_NoReRouteBelowVaccinationMinimum(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)
	a := NewAllocator(PolicyRotation, stats, nil, nil)

	day := newDayState(testMonday, model.ActivityNormal)
	day.assign("n2", model.SplitCell(
		model.CustomCell("Vaccination AM", model.VaccinationAM, vaccAMWindow),
		model.CustomCell("Complement", model.ComplementShort, vaccComplementWindow),
	))
	day.assign("lead", model.CategoryCell(model.Admin))

	a.backfillFloorMinimum(day, roster)

	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["lead"])
}
