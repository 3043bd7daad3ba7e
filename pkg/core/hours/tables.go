package hours

import (
	"time"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// DayKind distinguishes the three duration regimes a weekday can fall into.
type DayKind int

const (
	// KindWeekday is Monday through Thursday
	KindWeekday DayKind = iota

	// KindFriday is an ordinary Friday (next week is not a session week)
	KindFriday

	// KindPreSessionFriday is a Friday whose following week is a session week
	KindPreSessionFriday
)

// BaseWindow returns the default time window for a plain category on a given
// day kind and activity level, or "" when the category has no working window
// (absence codes, off-site rotation).
func BaseWindow(cat model.ShiftCategory, kind DayKind, level model.ActivityLevel) string {
	switch cat {
	case model.FloorA, model.FloorB:
		switch kind {
		case KindFriday:
			return "08:00-15:30"
		case KindPreSessionFriday:
			return "08:00-14:30"
		}
		return "08:00-17:00"
	case model.FloorAEvening, model.FloorBEvening, model.AdminEvening:
		if kind == KindPreSessionFriday {
			return "14:30-21:00"
		}
		if level == model.ActivityWhiteGreen {
			return "13:30-21:00"
		}
		return "13:00-21:00"
	case model.Admin:
		switch kind {
		case KindFriday:
			return "08:00-15:00"
		case KindPreSessionFriday:
			return "08:00-14:30"
		}
		return "08:00-16:00"
	case model.Training, model.TrainingAbroad:
		if kind != KindWeekday {
			return "08:00-15:00"
		}
		return "08:00-16:00"
	case model.OffsitePrep:
		return "08:00-13:00"
	case model.VaccinationAM:
		return "08:00-12:00"
	case model.VaccinationPM:
		return "15:30-19:30"
	case model.ComplementShort:
		return "15:30-19:00"
	}
	return ""
}

// BaseNet returns the default net duration for a plain category, before any
// reduction-rule delta. Non-Friday floor duty is 8.5h net; evening variants
// lose half an hour under a white-green week.
func BaseNet(cat model.ShiftCategory, kind DayKind, level model.ActivityLevel) float64 {
	switch cat {
	case model.FloorA, model.FloorB:
		switch kind {
		case KindFriday:
			return 7.0
		case KindPreSessionFriday:
			return 6.0
		}
		return 8.5
	case model.FloorAEvening, model.FloorBEvening, model.AdminEvening:
		if kind == KindPreSessionFriday {
			return 6.0
		}
		if level == model.ActivityWhiteGreen {
			return 7.0
		}
		return 7.5
	case model.Admin:
		switch kind {
		case KindFriday:
			return 6.5
		case KindPreSessionFriday:
			return 6.0
		}
		return 7.5
	case model.Training:
		if kind != KindWeekday {
			return 6.5
		}
		return 7.5
	case model.TrainingAbroad:
		return 8.0
	case model.OffsitePrep:
		return 5.0
	case model.VaccinationAM, model.VaccinationPM:
		return 4.0
	case model.ComplementShort:
		return 3.5
	}
	return 0
}

// TheoreticalDaily returns the hours a nurse is contracted to work on a date,
// independent of any actual assignment: the full-day floor base for the date,
// with the nurse's active reduction delta applied.
func TheoreticalDaily(date time.Time, kind DayKind, level model.ActivityLevel, offDay bool, rule model.ReductionRule, hasRule bool) float64 {
	if offDay {
		return 0
	}
	base := BaseNet(model.FloorA, kind, level)
	if !hasRule {
		return base
	}
	return applyReductionDelta(base, date, rule)
}
