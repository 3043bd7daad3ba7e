// Package hours derives net decimal work hours from finished schedule cells.
package hours

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// breakThreshold is the gross duration at which the half-hour break is owed.
const breakThreshold = 6.0

// Context carries everything besides the cell itself that hour resolution
// depends on.
type Context struct {
	Nurse model.Nurse
	Date  time.Time

	Kind  DayKind
	Level model.ActivityLevel

	// OffDay is true on weekends, public holidays and CLOSED weeks
	OffDay bool

	Rules  []model.ReductionRule
	Events []model.SpecialEvent
}

// activeRule returns the nurse's active reduction rule for the context date.
func (ctx Context) activeRule() (model.ReductionRule, bool) {
	return model.ActiveRule(ctx.Rules, ctx.Nurse.ID, ctx.Date)
}

// Net resolves a cell to net decimal hours. Resolution priority: special
// event window, custom window, absence code, off-site rotation, split cell,
// plain category. Results are clamped to a minimum of 0. Malformed window
// strings fail with an error wrapping ErrBadWindow.
func Net(cell model.ScheduleCell, ctx Context) (float64, error) {
	// Special events override everything: plain elapsed time, no break
	// deduction, no reduction.
	for _, ev := range ctx.Events {
		if ev.Window != "" && ev.Covers(ctx.Nurse.ID, ctx.Date) {
			return Elapsed(ev.Window)
		}
	}

	if cell.Kind == model.KindCustom && cell.Window != "" {
		return clamp(netFromWindow(cell.Window, ctx))
	}

	if cat, ok := cell.CategoryTag(); ok {
		if cat.IsAbsence() {
			rule, hasRule := ctx.activeRule()
			return clamp(TheoreticalDaily(ctx.Date, ctx.Kind, ctx.Level, ctx.OffDay, rule, hasRule), nil)
		}
		if cat == model.Offsite {
			// Fixed rate Monday through Thursday, exempt from reductions.
			switch ctx.Date.Weekday() {
			case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
				return 10.0, nil
			}
			return 0, nil
		}
	}

	if morning, afternoon, ok := cell.Halves(); ok {
		if cell.ManualSplit {
			return clamp(netManualSplit(morning, afternoon, ctx))
		}
		m, err := Net(morning, ctx)
		if err != nil {
			return 0, err
		}
		a, err := Net(afternoon, ctx)
		if err != nil {
			return 0, err
		}
		return clamp(m+a, nil)
	}

	cat, ok := cell.CategoryTag()
	if !ok {
		// A custom cell with neither window nor category tag carries no
		// computable hours.
		return 0, nil
	}

	base := BaseNet(cat, ctx.Kind, ctx.Level)
	rule, hasRule := ctx.activeRule()
	if !hasRule {
		return clamp(base, nil)
	}
	return clamp(applyReductionDelta(base, ctx.Date, rule), nil)
}

// netFromWindow resolves an explicit time window to net hours. A nurse under
// an active 90%/3h rule matching the weekday keeps a flat 6.0 when the gross
// span is exactly 6 hours; everyone else gets the standard break deduction.
func netFromWindow(window string, ctx Context) (float64, error) {
	gross, err := Elapsed(window)
	if err != nil {
		return 0, err
	}
	if rule, ok := ctx.activeRule(); ok {
		if (rule.Option == model.ShortenStart3h || rule.Option == model.ShortenEnd3h) &&
			rule.TargetsWeekday(ctx.Date.Weekday()) && gross == breakThreshold {
			return 6.0, nil
		}
	}
	return deductBreak(gross), nil
}

// netManualSplit sums both halves' gross time and deducts at most one break.
func netManualSplit(morning, afternoon model.ScheduleCell, ctx Context) (float64, error) {
	mg, err := grossOf(morning, ctx)
	if err != nil {
		return 0, err
	}
	ag, err := grossOf(afternoon, ctx)
	if err != nil {
		return 0, err
	}
	return deductBreak(mg + ag), nil
}

// grossOf returns a split half's gross span: its window when it has one,
// otherwise the category's table value.
func grossOf(half model.ScheduleCell, ctx Context) (float64, error) {
	if half.Kind == model.KindCustom && half.Window != "" {
		return Elapsed(half.Window)
	}
	if cat, ok := half.CategoryTag(); ok {
		return BaseNet(cat, ctx.Kind, ctx.Level), nil
	}
	return 0, nil
}

// applyReductionDelta adjusts a base net duration for the rule's effect on the
// given date. The 8.5h base under a 90%/3h rule collapses to exactly 6.0, not
// 5.5; preserved as a literal case.
func applyReductionDelta(base float64, date time.Time, rule model.ReductionRule) float64 {
	wd := date.Weekday()
	switch rule.Option {
	case model.FullDayOff:
		if rule.TargetsWeekday(wd) {
			return 0
		}
	case model.FridayOffPlusSecondary:
		if wd == time.Friday {
			return 0
		}
		if rule.TargetsWeekday(wd) {
			return base - 1.5
		}
	case model.LeaveEarlyMonThu:
		if wd >= time.Monday && wd <= time.Thursday {
			return base - 1.0
		}
	case model.ShortenStart3h, model.ShortenEnd3h:
		if rule.TargetsWeekday(wd) {
			if base == 8.5 {
				return 6.0
			}
			return base - 3.0
		}
	}
	return base
}

func deductBreak(gross float64) float64 {
	if gross >= breakThreshold {
		return gross - 0.5
	}
	return gross
}

func clamp(v float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}
