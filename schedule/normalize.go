package schedule

import (
	"fmt"
	"strings"
	"time"
)

// NormalizeSlot converts a mini-app slot into canonical encoding. It never fails: input it
// cannot make sense of comes back as a best-effort string, see CheckSlot.
func NormalizeSlot(raw RawSlot) Slot {
	return Slot{
		Date: normalizeDate(raw.Date),
		Time: normalizeTime(raw.Time),
	}
}

// CheckSlot reports an *UnparseableSlotWarning when the normalized slot is not a valid
// calendar date and clock time.
func CheckSlot(raw RawSlot) error {
	slot := NormalizeSlot(raw)
	if _, err := time.Parse(dateLayout, slot.Date); err != nil {
		return &UnparseableSlotWarning{Raw: raw, Normalized: slot}
	}
	if _, err := time.Parse(timeLayout, slot.Time); err != nil {
		return &UnparseableSlotWarning{Raw: raw, Normalized: slot}
	}
	return nil
}

// NormalizeSlots normalizes a whole submission, collecting one warning per suspicious slot.
func NormalizeSlots(raws []RawSlot) ([]Slot, []error) {
	slots := make([]Slot, 0, len(raws))
	var warnings []error
	for _, raw := range raws {
		slots = append(slots, NormalizeSlot(raw))
		if err := CheckSlot(raw); err != nil {
			warnings = append(warnings, err)
		}
	}
	return slots, warnings
}

func normalizeDate(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return s
	}
	day, month, year := parts[0], parts[1], parts[2]
	return fmt.Sprintf("%s-%s-%s", padLeft(year, 4), padLeft(month, 2), padLeft(day, 2))
}

func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 4:
		return s[:2] + ":" + s[2:]
	case 3:
		return "0" + s[:1] + ":" + s[1:]
	default:
		return s
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
