package schedule_test

import (
	"meetwhen/schedule"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	tg := "12345"
	roster := schedule.NewRoster([]schedule.ParticipantAvailability{
		{ParticipantID: "a", Name: "Alice", ExternalID: &tg},
		{ParticipantID: "b", Name: "Bob"},
	})

	best := schedule.Assemble([]schedule.RankedSlot{
		{Slot: schedule.Slot{Date: "2024-03-05", Time: "09:00"}, ParticipantIDs: []string{"b", "ghost", "a"}, Percentage: 75},
	}, roster)

	require.Len(t, best, 1)
	assert.Equal(t, "2024-03-05", best[0].Date)
	assert.Equal(t, "09:00", best[0].Time)
	assert.Equal(t, 3, best[0].AvailableCount)
	assert.Equal(t, 75.0, best[0].AvailabilityPercentage)
	assert.Equal(t, []string{"b", "ghost", "a"}, best[0].AvailableParticipantIDs)
	assert.Equal(t, []schedule.Participant{
		{ID: "b", Name: "Bob"},
		{ID: "ghost", Name: schedule.UnknownParticipant},
		{ID: "a", Name: "Alice", ExternalID: &tg},
	}, best[0].ParticipantDetails)
}

func TestRosterLookupBlankName(t *testing.T) {
	roster := schedule.NewRoster([]schedule.ParticipantAvailability{{ParticipantID: "a"}})
	assert.Equal(t, schedule.UnknownParticipant, roster.Lookup("a").Name)
}
