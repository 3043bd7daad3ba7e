package engine

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/hours"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// ApplyReductions rewrites the day's cells for every nurse whose active
// reduction rule touches this weekday. Manual-override cells and absence
// codes are never touched, and split cells (vaccination days) keep their
// shape.
func ApplyReductions(day *dayState, cal *Calendar, rules []model.ReductionRule) {
	for nurseID, cell := range day.cells {
		if day.overridden[nurseID] {
			continue
		}
		rule, ok := model.ActiveRule(rules, nurseID, day.date)
		if !ok {
			continue
		}
		if rewritten, changed := reduceCell(cell, day.date, cal, day.level, rule); changed {
			day.assign(nurseID, rewritten)
		}
	}
}

// reduceCell applies one active rule to one cell. The returned flag reports
// whether the cell was rewritten.
func reduceCell(cell model.ScheduleCell, date time.Time, cal *Calendar, level model.ActivityLevel, rule model.ReductionRule) (model.ScheduleCell, bool) {
	if cell.Kind == model.KindSplit {
		return cell, false
	}
	cat, ok := cell.CategoryTag()
	if !ok || cat.IsAbsence() || cat == model.Offsite || cat == model.OffsitePrep {
		return cell, false
	}

	wd := date.Weekday()

	switch rule.Option {
	case model.FullDayOff:
		if rule.TargetsWeekday(wd) {
			return model.CategoryCell(model.ReducedDayOff), true
		}

	case model.FridayOffPlusSecondary:
		if wd == time.Friday {
			return model.CategoryCell(model.ReducedDayOff), true
		}
		if rule.TargetsWeekday(wd) {
			return shortenCell(cell, cat, date, cal, level, 90*time.Minute, cat.IsEvening())
		}

	case model.LeaveEarlyMonThu:
		if wd >= time.Monday && wd <= time.Thursday {
			return shortenCell(cell, cat, date, cal, level, time.Hour, false)
		}

	case model.ShortenStart3h:
		if rule.TargetsWeekday(wd) {
			return shortenCell(cell, cat, date, cal, level, 3*time.Hour, true)
		}

	case model.ShortenEnd3h:
		if rule.TargetsWeekday(wd) {
			return shortenCell(cell, cat, date, cal, level, 3*time.Hour, false)
		}
	}

	return cell, false
}

// shortenCell rewrites a cell with its window cut by d, from the start when
// fromStart is set and from the end otherwise. The result is a custom cell
// keeping the original category's label and tag. Cells whose base window
// cannot be resolved or shortened are left unchanged.
func shortenCell(cell model.ScheduleCell, cat model.ShiftCategory, date time.Time, cal *Calendar, level model.ActivityLevel, d time.Duration, fromStart bool) (model.ScheduleCell, bool) {
	window := cell.Window
	if window == "" {
		window = hours.BaseWindow(cat, cal.DayKind(date), level)
	}
	if window == "" {
		return cell, false
	}

	var shortened string
	var err error
	if fromStart {
		shortened, err = hours.ShortenStart(window, d)
	} else {
		shortened, err = hours.ShortenEnd(window, d)
	}
	if err != nil {
		return cell, false
	}

	label := cell.Label
	if label == "" {
		label = cat.Label()
	}
	return model.CustomCell(label, cat, shortened), true
}
