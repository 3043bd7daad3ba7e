package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

func adminDay(nurseIDs ...string) *dayState {
	day := newDayState(testMonday, model.ActivityNormal)
	for _, id := range nurseIDs {
		day.assign(id, model.CategoryCell(model.Admin))
	}
	return day
}

func TestPromoteTraining_PromotesLowestTrainingCount(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)
	stats.Totals("n2").Training = 3
	stats.Totals("n3").Training = 1

	day := adminDay("n2", "n3")
	PromoteTraining(day, nil, roster, stats, "")

	assert.Equal(t, model.CategoryCell(model.Training), day.cells["n3"])
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n2"])
}

func TestPromoteTraining_RequiresTwoAdmins(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)

	day := adminDay("n2")
	PromoteTraining(day, nil, roster, stats, "")

	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n2"])
}

func TestPromoteTraining_ExclusionsNeverPromoted(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)

	// Lead, resident and the second-priority nurse all sit on admin.
	day := adminDay("lead", "res", "n7")
	PromoteTraining(day, nil, roster, stats, "n7")

	for _, id := range []string{"lead", "res", "n7"} {
		assert.Equal(t, model.CategoryCell(model.Admin), day.cells[id], "nurse %s", id)
	}
}

func TestPromoteTraining_WeeklyCap(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)
	// n2 was already trained this week.
	stats.Record("n2", model.CategoryCell(model.Training))

	day := adminDay("n2", "n3")
	PromoteTraining(day, nil, roster, stats, "")

	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n2"])
	assert.Equal(t, model.CategoryCell(model.Training), day.cells["n3"])
}

func TestPromoteTraining_PreviousDayAdminGoesToSecondaryBucket(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)
	// n2 has the lower cumulative training count, but held admin yesterday.
	stats.Totals("n3").Training = 2

	prev := map[string]model.ScheduleCell{
		"n2": model.CategoryCell(model.Admin),
	}

	day := adminDay("n2", "n3")
	PromoteTraining(day, prev, roster, stats, "")

	assert.Equal(t, model.CategoryCell(model.Training), day.cells["n3"])
}

func TestPromoteTraining_SecondaryBucketFallback(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)

	// Every candidate held admin or training yesterday.
	prev := map[string]model.ScheduleCell{
		"n2": model.CategoryCell(model.Training),
		"n3": model.CategoryCell(model.Admin),
	}
	stats.Totals("n2").Training = 4

	day := adminDay("n2", "n3")
	PromoteTraining(day, prev, roster, stats, "")

	assert.Equal(t, model.CategoryCell(model.Training), day.cells["n3"])
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n2"])
}

func TestPromoteTraining_OverriddenAdminNotCounted(t *testing.T) {
	roster := testRoster()
	stats := NewStats()
	stats.StartDay(testMonday)

	day := adminDay("n2")
	day.assign("n3", model.CategoryCell(model.Admin))
	day.overridden["n3"] = true

	// Only one non-overridden admin: no promotion.
	PromoteTraining(day, nil, roster, stats, "")
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n2"])
	assert.Equal(t, model.CategoryCell(model.Admin), day.cells["n3"])
}
