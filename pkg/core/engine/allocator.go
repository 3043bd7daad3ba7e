package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// Policy selects the allocator's tie-break mechanics. Both policies share the
// same fairness ranking key.
type Policy int

const (
	// PolicyEquity breaks remaining ties with a pseudo-random draw. Used when
	// recomputing a month in place.
	PolicyEquity Policy = iota

	// PolicyRotation breaks remaining ties with a persistent per-category
	// round-robin index, making the run fully reproducible. Used when
	// projecting forward across gaps.
	PolicyRotation
)

// Allocator fills a day's open needs from the duty pool by fairness ranking.
type Allocator struct {
	policy Policy
	stats  *Stats

	// rng backs the equity policy's tie-break; injected so runs can be
	// seeded for reproducible tests
	rng *rand.Rand

	rules []model.ReductionRule
}

// NewAllocator wires an allocator to the run's accumulator and reduction
// rules. rng may be nil for PolicyRotation.
func NewAllocator(policy Policy, stats *Stats, rules []model.ReductionRule, rng *rand.Rand) *Allocator {
	return &Allocator{policy: policy, stats: stats, rules: rules, rng: rng}
}

// FillNeeds runs one ranking round per open unit, assigning the top-ranked
// pool member each time. An empty pool leaves the unit unfilled; unfilled
// units are returned for reporting, not escalated. Remaining counts are
// tracked as units fill, so a PM vaccination split's morning half only covers
// a floor line still in need.
func (a *Allocator) FillNeeds(day *dayState, needs Needs) []model.ShiftCategory {
	remaining := make(Needs, len(needs))
	for cat, count := range needs {
		remaining[cat] = count
	}

	var unfilled []model.ShiftCategory
	for _, cat := range needs.Units() {
		nurse, ok := a.pick(day, cat)
		if !ok {
			unfilled = append(unfilled, cat)
			continue
		}
		day.assign(nurse.ID, a.cellFor(nurse, cat, remaining))
		remaining[cat]--
		day.removeFromPool(nurse.ID)
	}
	return unfilled
}

// cellFor builds the cell a need unit materializes as. Vaccination units are
// always one half of a two-part split, even outside campaign weekdays; every
// other category is a plain cell. A PM split's morning half draws down the
// remaining count of the floor line it covers.
func (a *Allocator) cellFor(nurse model.Nurse, cat model.ShiftCategory, needs Needs) model.ScheduleCell {
	switch cat {
	case model.VaccinationAM:
		return model.SplitCell(
			model.CustomCell(model.VaccinationAM.Label(), model.VaccinationAM, vaccAMWindow),
			model.CustomCell(model.ComplementShort.Label(), model.ComplementShort, vaccComplementWindow),
		)
	case model.VaccinationPM:
		morning := a.morningFloorFor(nurse, needs)
		if needs[morning] > 0 {
			needs[morning]--
		}
		return model.SplitCell(
			model.CustomCell(morning.Label(), morning, vaccMorningWindow),
			model.CustomCell(model.VaccinationPM.Label(), model.VaccinationPM, vaccPMWindow),
		)
	}
	return model.CategoryCell(cat)
}

// pick ranks the eligible pool for one unit and returns the chosen nurse.
func (a *Allocator) pick(day *dayState, cat model.ShiftCategory) (model.Nurse, bool) {
	candidates := a.eligible(day, cat)
	if len(candidates) == 0 {
		return model.Nurse{}, false
	}

	// Sort by the shared ranking key, with display order as the stable final
	// tie so the tie set itself is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		return a.rankLess(candidates[i], candidates[j], cat, day)
	})

	ties := a.tieSet(candidates, cat, day)
	switch a.policy {
	case PolicyRotation:
		return ties[a.stats.NextRotation(cat)%len(ties)], true
	default:
		if a.rng != nil && len(ties) > 1 {
			return ties[a.rng.Intn(len(ties))], true
		}
		return ties[0], true
	}
}

// eligible filters the pool for one category: evening units exclude nurses
// whose active reduction rule bars them from evening duty that weekday.
func (a *Allocator) eligible(day *dayState, cat model.ShiftCategory) []model.Nurse {
	eveningLike := cat.IsEvening() || cat == model.VaccinationPM
	out := make([]model.Nurse, 0, len(day.pool))
	for _, nurse := range day.pool {
		if eveningLike && EveningIneligible(a.rules, nurse.ID, day.date) {
			continue
		}
		out = append(out, nurse)
	}
	return out
}

// rankKey is the shared fairness key: primary stat ascending, same-category
// count this ISO week ascending, overall clinical load ascending.
func (a *Allocator) rankKey(nurse model.Nurse, cat model.ShiftCategory) (int, int, int) {
	return a.stats.PrimaryStat(nurse.ID, cat),
		a.stats.WeeklyCount(nurse.ID, cat),
		a.stats.Totals(nurse.ID).Clinical
}

func (a *Allocator) rankLess(x, y model.Nurse, cat model.ShiftCategory, day *dayState) bool {
	x1, x2, x3 := a.rankKey(x, cat)
	y1, y2, y3 := a.rankKey(y, cat)
	if x1 != y1 {
		return x1 < y1
	}
	if x2 != y2 {
		return x2 < y2
	}
	if x3 != y3 {
		return x3 < y3
	}
	return x.Order < y.Order
}

// tieSet returns the leading candidates whose ranking keys all equal the
// best one.
func (a *Allocator) tieSet(sorted []model.Nurse, cat model.ShiftCategory, day *dayState) []model.Nurse {
	b1, b2, b3 := a.rankKey(sorted[0], cat)
	end := 1
	for end < len(sorted) {
		c1, c2, c3 := a.rankKey(sorted[end], cat)
		if c1 != b1 || c2 != b2 || c3 != b3 {
			break
		}
		end++
	}
	return sorted[:end]
}

// DefaultLeftovers sends every nurse still in the pool to admin duty.
// Residents are excluded from the admin default: they are back-filled by
// swapping with a nurse holding a clinical need cell, who then drops to admin.
func (a *Allocator) DefaultLeftovers(day *dayState) {
	var residents []model.Nurse
	for _, nurse := range day.pool {
		if nurse.Role == model.RoleResident {
			residents = append(residents, nurse)
			continue
		}
		day.assign(nurse.ID, model.CategoryCell(model.Admin))
	}
	day.pool = day.pool[:0]

	for _, resident := range residents {
		a.swapResidentIn(day, resident)
	}
}

// swapResidentIn gives a leftover resident the clinical cell of the most
// clinically loaded holder, who moves to admin. Residents barred from evening
// duty only take day cells. A resident with no swap partner stays unassigned.
// Equally loaded holders are ordered by id so identical inputs always pick the
// same donor.
func (a *Allocator) swapResidentIn(day *dayState, resident model.Nurse) {
	var candidates []string
	for nurseID, cell := range day.cells {
		if day.overridden[nurseID] {
			continue
		}
		cat, ok := cell.CategoryTag()
		if !ok || !cat.IsFloor() {
			continue
		}
		if cat.IsEvening() && EveningIneligible(a.rules, resident.ID, day.date) {
			continue
		}
		candidates = append(candidates, nurseID)
	}
	if len(candidates) == 0 {
		return
	}

	sort.Slice(candidates, func(i, j int) bool {
		li := a.stats.Totals(candidates[i]).Clinical
		lj := a.stats.Totals(candidates[j]).Clinical
		if li != lj {
			return li > lj
		}
		return candidates[i] < candidates[j]
	})

	donor := candidates[0]
	donorCat, _ := day.cells[donor].CategoryTag()
	day.assign(resident.ID, model.CategoryCell(donorCat))
	day.assign(donor, model.CategoryCell(model.Admin))
}

// EveningIneligible reports whether a nurse's active reduction rule bars them
// from evening-category duty on the date: any adjustment that zeroes the day
// or cuts the end of the shift on that weekday.
func EveningIneligible(rules []model.ReductionRule, nurseID string, date time.Time) bool {
	rule, ok := model.ActiveRule(rules, nurseID, date)
	if !ok {
		return false
	}
	wd := date.Weekday()
	switch rule.Option {
	case model.FullDayOff:
		return rule.TargetsWeekday(wd)
	case model.FridayOffPlusSecondary:
		// The secondary-day cut moves the start for evening cells, so only
		// the Friday itself is barred.
		return wd == time.Friday
	case model.LeaveEarlyMonThu:
		return wd >= time.Monday && wd <= time.Thursday
	case model.ShortenEnd3h:
		return rule.TargetsWeekday(wd)
	}
	return false
}
