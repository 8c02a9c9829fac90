package schedule

import "fmt"

// InputShapeError reports a missing or malformed event definition.
type InputShapeError struct {
	Field string
	Value string

	// Reason is set when the value parses but is out of range.
	Reason string
}

func (e *InputShapeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("event %s is out of range: %s", e.Field, e.Reason)
	}
	if e.Value == "" {
		return fmt.Sprintf("event %s is required", e.Field)
	}
	return fmt.Sprintf("event %s is malformed: %q", e.Field, e.Value)
}

// DegenerateGridWarning is attached to an Analysis whose grid has no slots.
type DegenerateGridWarning struct {
	Dates int
	Times int
}

func (w *DegenerateGridWarning) Error() string {
	return fmt.Sprintf("empty slot grid: %d dates x %d times", w.Dates, w.Times)
}

// UnparseableSlotWarning flags a raw slot whose normalized form is not a real date or time.
type UnparseableSlotWarning struct {
	Raw        RawSlot
	Normalized Slot
}

func (w *UnparseableSlotWarning) Error() string {
	return fmt.Sprintf("unparseable slot %s %s (normalized to %s %s)", w.Raw.Date, w.Raw.Time, w.Normalized.Date, w.Normalized.Time)
}
