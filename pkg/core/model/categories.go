package model

// ShiftCategory is the closed set of duty codes a cell can carry.
type ShiftCategory string

const (
	// Floor duty, two parallel clinical lines, each with an evening variant
	FloorA        ShiftCategory = "FLOOR_A"
	FloorAEvening ShiftCategory = "FLOOR_A_EVENING"
	FloorB        ShiftCategory = "FLOOR_B"
	FloorBEvening ShiftCategory = "FLOOR_B_EVENING"

	// Administrative duty
	Admin        ShiftCategory = "ADMIN"
	AdminEvening ShiftCategory = "ADMIN_EVENING"

	// Training duty
	Training       ShiftCategory = "TRAINING"
	TrainingAbroad ShiftCategory = "TRAINING_ABROAD"

	// Off-site rotation during session weeks
	Offsite     ShiftCategory = "OFFSITE"
	OffsitePrep ShiftCategory = "OFFSITE_PREP"

	// Absence codes
	Vacation      ShiftCategory = "VACATION"
	Absence       ShiftCategory = "ABSENCE"
	Sick          ShiftCategory = "SICK"
	TrainingLeave ShiftCategory = "TRAINING_LEAVE"

	// ReducedDayOff marks a paid day off produced by a work-time reduction rule
	ReducedDayOff ShiftCategory = "REDUCED_DAY_OFF"

	// Vaccination campaign half-day duties
	VaccinationAM ShiftCategory = "VACCINATION_AM"
	VaccinationPM ShiftCategory = "VACCINATION_PM"

	// ComplementShort is the short complement slot (pre-session Fridays,
	// vaccination split afternoons)
	ComplementShort ShiftCategory = "COMPLEMENT_SHORT"
)

// AllCategories lists every valid category, in display order.
var AllCategories = []ShiftCategory{
	FloorA, FloorAEvening, FloorB, FloorBEvening,
	Admin, AdminEvening,
	Training, TrainingAbroad,
	Offsite, OffsitePrep,
	Vacation, Absence, Sick, TrainingLeave, ReducedDayOff,
	VaccinationAM, VaccinationPM,
	ComplementShort,
}

// IsClinical reports whether the category counts toward a nurse's clinical load.
func (c ShiftCategory) IsClinical() bool {
	switch c {
	case FloorA, FloorAEvening, FloorB, FloorBEvening,
		VaccinationAM, VaccinationPM, ComplementShort:
		return true
	}
	return false
}

// IsEvening reports whether the category is an evening variant.
func (c ShiftCategory) IsEvening() bool {
	switch c {
	case FloorAEvening, FloorBEvening, AdminEvening:
		return true
	}
	return false
}

// IsAbsence reports whether the category is an absence code. Absence cells are
// exempt from reduction-rule rewrites and resolve to theoretical daily hours.
func (c ShiftCategory) IsAbsence() bool {
	switch c {
	case Vacation, Absence, Sick, TrainingLeave, ReducedDayOff:
		return true
	}
	return false
}

// IsFloor reports whether the category is one of the four floor-duty variants.
func (c ShiftCategory) IsFloor() bool {
	switch c {
	case FloorA, FloorAEvening, FloorB, FloorBEvening:
		return true
	}
	return false
}

// Label returns the short human label used in printed rosters.
func (c ShiftCategory) Label() string {
	switch c {
	case FloorA:
		return "Floor A"
	case FloorAEvening:
		return "Floor A (eve)"
	case FloorB:
		return "Floor B"
	case FloorBEvening:
		return "Floor B (eve)"
	case Admin:
		return "Admin"
	case AdminEvening:
		return "Admin (eve)"
	case Training:
		return "Training"
	case TrainingAbroad:
		return "Training (abroad)"
	case Offsite:
		return "Off-site"
	case OffsitePrep:
		return "Off-site prep"
	case Vacation:
		return "Vacation"
	case Absence:
		return "Absence"
	case Sick:
		return "Sick"
	case TrainingLeave:
		return "Training leave"
	case ReducedDayOff:
		return "Reduced day off"
	case VaccinationAM:
		return "Vaccination AM"
	case VaccinationPM:
		return "Vaccination PM"
	case ComplementShort:
		return "Complement"
	}
	return string(c)
}
