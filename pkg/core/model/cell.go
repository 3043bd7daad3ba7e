package model

// CellKind discriminates the three schedule cell variants.
type CellKind int

const (
	// KindCategory is a bare shift category
	KindCategory CellKind = iota

	// KindCustom is a free-text cell, optionally tagged with an underlying
	// category and an explicit time window
	KindCustom

	// KindSplit holds one cell per half of the day
	KindSplit
)

// ScheduleCell is a tagged union over the three cell variants. Consumers must
// switch on Kind; the fields of the other variants are zero. A split cell's
// two parts are themselves category or custom cells, never splits.
type ScheduleCell struct {
	Kind CellKind

	// KindCategory
	Category ShiftCategory

	// KindCustom
	Label string
	// Tag is the underlying category a custom cell stands for, if any
	Tag ShiftCategory
	// Window is an explicit "HH:MM-HH:MM" time window, if any
	Window string
	// ManualSplit marks a hand-entered split. Meaningful on KindSplit: hours
	// are then computed on the combined gross time of both halves with a
	// single break deduction.
	ManualSplit bool

	// KindSplit
	Morning   *ScheduleCell
	Afternoon *ScheduleCell
}

// CategoryCell returns a bare category cell.
func CategoryCell(c ShiftCategory) ScheduleCell {
	return ScheduleCell{Kind: KindCategory, Category: c}
}

// CustomCell returns a free-text cell tagged with a category and window.
// Either tag or window may be zero.
func CustomCell(label string, tag ShiftCategory, window string) ScheduleCell {
	return ScheduleCell{Kind: KindCustom, Label: label, Tag: tag, Window: window}
}

// SplitCell returns a two-part cell. Both parts must be non-split cells.
func SplitCell(morning, afternoon ScheduleCell) ScheduleCell {
	m := morning
	a := afternoon
	return ScheduleCell{Kind: KindSplit, Morning: &m, Afternoon: &a}
}

// CategoryTag returns the category a cell stands for: the category itself for
// bare cells, the tag (if any) for custom cells, and none for splits.
func (c ScheduleCell) CategoryTag() (ShiftCategory, bool) {
	switch c.Kind {
	case KindCategory:
		return c.Category, true
	case KindCustom:
		if c.Tag != "" {
			return c.Tag, true
		}
	}
	return "", false
}

// Halves returns the two parts of a split cell, or none for other kinds.
func (c ScheduleCell) Halves() (morning, afternoon ScheduleCell, ok bool) {
	if c.Kind != KindSplit || c.Morning == nil || c.Afternoon == nil {
		return ScheduleCell{}, ScheduleCell{}, false
	}
	return *c.Morning, *c.Afternoon, true
}

// HasCategory reports whether the cell, or either half of a split, stands for
// the given category.
func (c ScheduleCell) HasCategory(cat ShiftCategory) bool {
	switch c.Kind {
	case KindCategory:
		return c.Category == cat
	case KindCustom:
		return c.Tag == cat
	case KindSplit:
		m, a, ok := c.Halves()
		return ok && (m.HasCategory(cat) || a.HasCategory(cat))
	}
	return false
}

// String renders the cell for logs and tables.
func (c ScheduleCell) String() string {
	switch c.Kind {
	case KindCategory:
		return c.Category.Label()
	case KindCustom:
		if c.Label != "" {
			return c.Label
		}
		if c.Tag != "" {
			return c.Tag.Label()
		}
		return "custom"
	case KindSplit:
		m, a, ok := c.Halves()
		if !ok {
			return "split(?)"
		}
		return m.String() + " / " + a.String()
	}
	return "?"
}
