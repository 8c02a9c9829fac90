package schedule

import (
	"slices"
	"strconv"
	"strings"
)

// SelectTop returns the first limit slots of an already ranked list.
func SelectTop(ranked []RankedSlot, limit int) []RankedSlot {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(ranked) < limit {
		limit = len(ranked)
	}
	return slices.Clone(ranked[:limit])
}

// ParseLimit reads a limit query value, falling back to DefaultLimit for anything that is not
// a positive integer.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return n
}
