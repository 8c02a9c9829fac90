package schedule

import (
	"cmp"
	"slices"
)

// Aggregate ranks every (date, time) cell of the grid by the share of participants available
// at it. Cells are visited dates-major; the stable sort keeps that order among equal scores.
func Aggregate(participants []ParticipantAvailability, dates, times []string) []RankedSlot {
	total := len(participants)

	index := make([]map[Slot]struct{}, total)
	for i, p := range participants {
		set := make(map[Slot]struct{}, len(p.Slots))
		for _, s := range p.Slots {
			set[s] = struct{}{}
		}
		index[i] = set
	}

	ranked := make([]RankedSlot, 0, len(dates)*len(times))
	for _, date := range dates {
		for _, t := range times {
			slot := Slot{Date: date, Time: t}
			ids := []string{}
			for i, p := range participants {
				if _, ok := index[i][slot]; ok {
					ids = append(ids, p.ParticipantID)
				}
			}
			ranked = append(ranked, RankedSlot{
				Slot:           slot,
				ParticipantIDs: ids,
				Percentage:     percentage(len(ids), total),
			})
		}
	}

	slices.SortStableFunc(ranked, func(a, b RankedSlot) int {
		return cmp.Compare(b.Percentage, a.Percentage)
	})
	return ranked
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
