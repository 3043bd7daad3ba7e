package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/nuriabp/ambulatori-rota/pkg/core/engine"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

const configFileName = "clinic_config.yaml"

// NurseEntry describes one roster member.
type NurseEntry struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Order int    `yaml:"order" validate:"min=0"`
	Role  string `yaml:"role,omitempty" validate:"omitempty,oneof=staff lead resident"`
}

// VaccinationEntry is the campaign date window.
type VaccinationEntry struct {
	From string `yaml:"from" validate:"required,datetime=2006-01-02"`
	To   string `yaml:"to" validate:"required,datetime=2006-01-02"`
}

// RotationEntry commits nurses to the off-site rotation for one ISO week.
type RotationEntry struct {
	Week   string   `yaml:"week" validate:"required"`
	Nurses []string `yaml:"nurses" validate:"required,min=1"`
}

// ReductionEntry is a part-time rule ("jornada") for one nurse.
type ReductionEntry struct {
	Nurse    string   `yaml:"nurse" validate:"required"`
	Percent  int      `yaml:"percent" validate:"required,oneof=80 90 100"`
	From     string   `yaml:"from" validate:"required,datetime=2006-01-02"`
	To       string   `yaml:"to" validate:"required,datetime=2006-01-02"`
	Option   string   `yaml:"option" validate:"required,oneof=FULL_DAY_OFF FRIDAY_OFF_PLUS_SECONDARY LEAVE_EARLY_MON_THU SHORTEN_START_3H SHORTEN_END_3H"`
	Weekdays []string `yaml:"weekdays,omitempty" validate:"dive,oneof=monday tuesday wednesday thursday friday"`
}

// EventEntry is a special engagement with an explicit time window.
type EventEntry struct {
	Name   string   `yaml:"name" validate:"required"`
	From   string   `yaml:"from" validate:"required,datetime=2006-01-02"`
	To     string   `yaml:"to" validate:"required,datetime=2006-01-02"`
	Nurses []string `yaml:"nurses" validate:"required,min=1"`
	Window string   `yaml:"window,omitempty"`
}

// HolidaysEntry lists public holidays as explicit dates plus RRULE
// recurrences.
type HolidaysEntry struct {
	Dates  []string `yaml:"dates,omitempty" validate:"dive,datetime=2006-01-02"`
	RRules []string `yaml:"rrules,omitempty"`
}

// SeasonalEntry pins a nurse to fixed categories during one month, keyed by
// week-of-month.
type SeasonalEntry struct {
	Nurse  string         `yaml:"nurse" validate:"required"`
	Month  int            `yaml:"month" validate:"required,min=1,max=12"`
	ByWeek map[int]string `yaml:"byWeek" validate:"required,min=1"`
}

// OverrideEntry fixes one cell by hand. Either a category or a label must be
// given; window and manualSplit only apply to labelled cells.
type OverrideEntry struct {
	Nurse       string `yaml:"nurse" validate:"required"`
	Date        string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Category    string `yaml:"category,omitempty"`
	Label       string `yaml:"label,omitempty"`
	Window      string `yaml:"window,omitempty"`
	ManualSplit bool   `yaml:"manualSplit,omitempty"`
}

// Config is the clinic configuration file.
type Config struct {
	Team               []NurseEntry      `yaml:"team" validate:"required,min=1,dive"`
	SecondPriority     string            `yaml:"secondPriority,omitempty"`
	Agenda             map[string]string `yaml:"agenda,omitempty" validate:"dive,oneof=NORMAL SESSION WHITE_GREEN REDUCED CLOSED"`
	Vaccination        *VaccinationEntry `yaml:"vaccination,omitempty"`
	Rotations          []RotationEntry   `yaml:"rotations,omitempty" validate:"dive"`
	Reductions         []ReductionEntry  `yaml:"reductions,omitempty" validate:"dive"`
	SpecialEvents      []EventEntry      `yaml:"specialEvents,omitempty" validate:"dive"`
	Holidays           HolidaysEntry     `yaml:"holidays,omitempty"`
	SeasonalExceptions []SeasonalEntry   `yaml:"seasonalExceptions,omitempty" validate:"dive"`
	Overrides          []OverrideEntry   `yaml:"overrides,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from clinic_config.yaml,
// looking in the current directory first and the user's home directory
// second.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation plus the checks tags cannot express:
// rrule syntax, nurse references, and exactly one lead.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.Holidays.RRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in holidays.rrules[%d]: %w", i, err)
		}
	}

	known := make(map[string]bool, len(cfg.Team))
	leads := 0
	for _, entry := range cfg.Team {
		if known[entry.ID] {
			return fmt.Errorf("duplicate nurse id %q in team", entry.ID)
		}
		known[entry.ID] = true
		if entry.Role == "lead" {
			leads++
		}
	}
	if leads > 1 {
		return fmt.Errorf("team has %d lead nurses (max 1 allowed)", leads)
	}

	checkRef := func(section, id string) error {
		if !known[id] {
			return fmt.Errorf("%s references unknown nurse %q", section, id)
		}
		return nil
	}
	if cfg.SecondPriority != "" {
		if err := checkRef("secondPriority", cfg.SecondPriority); err != nil {
			return err
		}
	}
	for _, r := range cfg.Rotations {
		for _, id := range r.Nurses {
			if err := checkRef("rotations", id); err != nil {
				return err
			}
		}
	}
	for _, r := range cfg.Reductions {
		if err := checkRef("reductions", r.Nurse); err != nil {
			return err
		}
	}
	for _, e := range cfg.SpecialEvents {
		for _, id := range e.Nurses {
			if err := checkRef("specialEvents", id); err != nil {
				return err
			}
		}
	}
	for _, s := range cfg.SeasonalExceptions {
		if err := checkRef("seasonalExceptions", s.Nurse); err != nil {
			return err
		}
	}
	for _, o := range cfg.Overrides {
		if err := checkRef("overrides", o.Nurse); err != nil {
			return err
		}
		if o.Category == "" && o.Label == "" {
			return fmt.Errorf("override for %s on %s needs a category or a label", o.Nurse, o.Date)
		}
	}

	return nil
}

// Inputs converts the configuration to engine inputs for a generation range.
func (cfg *Config) Inputs(from, to time.Time) (engine.Inputs, error) {
	inputs := engine.Inputs{
		From:             from,
		To:               to,
		Agenda:           make(model.Agenda, len(cfg.Agenda)),
		Overrides:        make(model.Schedule),
		SecondPriorityID: cfg.SecondPriority,
	}

	for _, entry := range cfg.Team {
		role := model.RoleStaff
		switch entry.Role {
		case "lead":
			role = model.RoleLead
		case "resident":
			role = model.RoleResident
		}
		inputs.Roster = append(inputs.Roster, model.Nurse{
			ID:    entry.ID,
			Name:  entry.Name,
			Order: entry.Order,
			Role:  role,
		})
	}

	for week, level := range cfg.Agenda {
		inputs.Agenda[model.WeekKey(week)] = model.ActivityLevel(level)
	}

	if cfg.Vaccination != nil {
		window, err := parseRange(cfg.Vaccination.From, cfg.Vaccination.To)
		if err != nil {
			return engine.Inputs{}, fmt.Errorf("vaccination window: %w", err)
		}
		inputs.Vaccination = &window
	}

	for _, entry := range cfg.Rotations {
		inputs.Rotations = append(inputs.Rotations, model.RotationWeek{
			Week:     model.WeekKey(entry.Week),
			NurseIDs: entry.Nurses,
		})
	}

	for _, entry := range cfg.Reductions {
		interval, err := parseRange(entry.From, entry.To)
		if err != nil {
			return engine.Inputs{}, fmt.Errorf("reduction for %s: %w", entry.Nurse, err)
		}
		weekdays, err := parseWeekdays(entry.Weekdays)
		if err != nil {
			return engine.Inputs{}, fmt.Errorf("reduction for %s: %w", entry.Nurse, err)
		}
		inputs.ReductionRules = append(inputs.ReductionRules, model.ReductionRule{
			NurseID:  entry.Nurse,
			Percent:  entry.Percent,
			From:     interval.From,
			To:       interval.To,
			Option:   model.ReductionOption(entry.Option),
			Weekdays: weekdays,
		})
	}

	for _, entry := range cfg.SpecialEvents {
		interval, err := parseRange(entry.From, entry.To)
		if err != nil {
			return engine.Inputs{}, fmt.Errorf("special event %q: %w", entry.Name, err)
		}
		inputs.SpecialEvents = append(inputs.SpecialEvents, model.SpecialEvent{
			Name:     entry.Name,
			From:     interval.From,
			To:       interval.To,
			NurseIDs: entry.Nurses,
			Window:   entry.Window,
		})
	}

	for _, s := range cfg.Holidays.Dates {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return engine.Inputs{}, fmt.Errorf("holiday date %q: %w", s, err)
		}
		inputs.HolidayDates = append(inputs.HolidayDates, d)
	}
	inputs.HolidayRules = cfg.Holidays.RRules

	for _, entry := range cfg.SeasonalExceptions {
		byWeek := make(map[int]model.ShiftCategory, len(entry.ByWeek))
		for week, cat := range entry.ByWeek {
			byWeek[week] = model.ShiftCategory(cat)
		}
		inputs.SeasonalExceptions = append(inputs.SeasonalExceptions, engine.SeasonalException{
			NurseID:       entry.Nurse,
			Month:         time.Month(entry.Month),
			ByWeekOfMonth: byWeek,
		})
	}

	for _, entry := range cfg.Overrides {
		cell := model.CategoryCell(model.ShiftCategory(entry.Category))
		if entry.Label != "" {
			cell = model.CustomCell(entry.Label, model.ShiftCategory(entry.Category), entry.Window)
			cell.ManualSplit = entry.ManualSplit
		}
		inputs.Overrides.Set(entry.Nurse, model.DateKey(entry.Date), cell)
	}

	return inputs, nil
}

func parseRange(from, to string) (engine.DateRange, error) {
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return engine.DateRange{}, fmt.Errorf("bad from date %q: %w", from, err)
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return engine.DateRange{}, fmt.Errorf("bad to date %q: %w", to, err)
	}
	if t.Before(f) {
		return engine.DateRange{}, fmt.Errorf("range %s..%s ends before it starts", from, to)
	}
	return engine.DateRange{From: f, To: t}, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(name) {
		case "monday":
			out = append(out, time.Monday)
		case "tuesday":
			out = append(out, time.Tuesday)
		case "wednesday":
			out = append(out, time.Wednesday)
		case "thursday":
			out = append(out, time.Thursday)
		case "friday":
			out = append(out, time.Friday)
		default:
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
	}
	return out, nil
}

// findConfigFile looks for the config in the current directory, then the
// user's home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	homePath := filepath.Join(home, configFileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
