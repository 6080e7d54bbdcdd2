package domain

// FieldCategory orders change events within one snapshot diff: binary
// conditions first, then discrete states, measurements and warnings.
type FieldCategory int

const (
	CategoryBinaryCondition FieldCategory = iota
	CategoryDiscreteState
	CategoryMeasurement
	CategoryWarning
)

func (c FieldCategory) String() string {
	switch c {
	case CategoryBinaryCondition:
		return "binary_condition"
	case CategoryDiscreteState:
		return "discrete_state"
	case CategoryMeasurement:
		return "measurement"
	default:
		return "warning"
	}
}

// ChangeEvent is a single field-level delta between two snapshots of the
// same unit. Old is nil on first observation or when a field appears; New is
// nil when a field disappears or a warning clears.
type ChangeEvent struct {
	SerialNumber string
	Category     FieldCategory
	Field        string
	Old          any
	New          any
}

// WarningAdded reports whether a warning-category event represents a newly
// active warning (as opposed to a cleared one).
func (e ChangeEvent) WarningAdded() bool {
	return e.Category == CategoryWarning && e.New != nil
}
