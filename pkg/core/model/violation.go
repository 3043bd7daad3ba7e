package model

// Severity grades a rule violation.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// GlobalNurseID is the sentinel nurse id for violations that concern the whole
// roster rather than one nurse.
const GlobalNurseID = ""

// RuleViolation is one finding from the rule validator. Exactly one of Date
// and Week is set. Violations are deduplicated by (Message, NurseID, Date,
// Week) identity and never mutated after creation.
type RuleViolation struct {
	NurseID  string
	Message  string
	Severity Severity
	Date     DateKey
	Week     WeekKey
}

// DedupViolations removes duplicate findings, keeping first occurrence order.
func DedupViolations(violations []RuleViolation) []RuleViolation {
	type key struct {
		nurse   string
		message string
		date    DateKey
		week    WeekKey
	}
	seen := make(map[key]bool, len(violations))
	out := make([]RuleViolation, 0, len(violations))
	for _, v := range violations {
		k := key{nurse: v.NurseID, message: v.Message, date: v.Date, week: v.Week}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
