package schedule_test

import (
	"meetwhen/schedule"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBestTimes(t *testing.T) {
	window := schedule.EventWindow{
		StartDate: "2024-03-05",
		EndDate:   "2024-03-06",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	t.Run("ranks and annotates", func(t *testing.T) {
		records := []schedule.ParticipantAvailability{
			{ParticipantID: "a", Name: "Alice", Slots: []schedule.Slot{{Date: "2024-03-06", Time: "09:30"}, {Date: "2024-03-05", Time: "09:00"}}},
			{ParticipantID: "b", Name: "Bob", Slots: []schedule.Slot{{Date: "2024-03-06", Time: "09:30"}}},
			{ParticipantID: "c", Name: "Carol"},
		}

		analysis, err := schedule.ComputeBestTimes(window, records, schedule.Options{Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, []string{"2024-03-05", "2024-03-06"}, analysis.EventDates)
		assert.Equal(t, []string{"09:00", "09:30"}, analysis.EventTimes)
		assert.Equal(t, 3, analysis.ParticipantCount)
		assert.Equal(t, 4, analysis.TotalPossibleSlots)
		assert.Empty(t, analysis.Warnings)

		require.Len(t, analysis.BestTimes, 2)
		first := analysis.BestTimes[0]
		assert.Equal(t, "2024-03-06", first.Date)
		assert.Equal(t, "09:30", first.Time)
		assert.Equal(t, 2, first.AvailableCount)
		assert.InDelta(t, 66.666, first.AvailabilityPercentage, 0.01)
		assert.Equal(t, "Alice", first.ParticipantDetails[0].Name)
		assert.Equal(t, "Bob", first.ParticipantDetails[1].Name)

		second := analysis.BestTimes[1]
		assert.Equal(t, "2024-03-05", second.Date)
		assert.Equal(t, "09:00", second.Time)
		assert.Equal(t, []string{"a"}, second.AvailableParticipantIDs)

		require.Len(t, analysis.Participants, 3)
		assert.Equal(t, 2, analysis.Participants[0].SlotsCount)
		assert.Equal(t, 0, analysis.Participants[2].SlotsCount)
	})

	t.Run("interval override", func(t *testing.T) {
		analysis, err := schedule.ComputeBestTimes(window, nil, schedule.Options{IntervalMinutes: 15})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45"}, analysis.EventTimes)
		assert.Len(t, analysis.BestTimes, 8)
		for _, b := range analysis.BestTimes {
			assert.Equal(t, 0.0, b.AvailabilityPercentage)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		wide := window
		wide.EndTime = "18:00"
		analysis, err := schedule.ComputeBestTimes(wide, nil, schedule.Options{})
		require.NoError(t, err)
		assert.Len(t, analysis.BestTimes, schedule.DefaultLimit)
	})

	t.Run("degenerate grid", func(t *testing.T) {
		reversed := window
		reversed.StartDate, reversed.EndDate = window.EndDate, window.StartDate

		analysis, err := schedule.ComputeBestTimes(reversed, nil, schedule.Options{})
		require.NoError(t, err)
		assert.Empty(t, analysis.EventDates)
		assert.NotNil(t, analysis.BestTimes)
		assert.Empty(t, analysis.BestTimes)
		assert.Equal(t, 0, analysis.TotalPossibleSlots)

		require.Len(t, analysis.Warnings, 1)
		var warning *schedule.DegenerateGridWarning
		assert.ErrorAs(t, analysis.Warnings[0], &warning)
	})

	t.Run("missing field", func(t *testing.T) {
		missing := window
		missing.EndTime = ""

		analysis, err := schedule.ComputeBestTimes(missing, nil, schedule.Options{})
		require.Nil(t, analysis)
		var shapeErr *schedule.InputShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "end_time", shapeErr.Field)
	})

	t.Run("malformed field", func(t *testing.T) {
		bad := window
		bad.StartDate = "2024/03/05"

		_, err := schedule.ComputeBestTimes(bad, nil, schedule.Options{})
		var shapeErr *schedule.InputShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "start_date", shapeErr.Field)
	})

	t.Run("event longer than max days", func(t *testing.T) {
		huge := schedule.EventWindow{StartDate: "0001-01-01", EndDate: "9999-12-31", StartTime: "00:00", EndTime: "23:59"}

		analysis, err := schedule.ComputeBestTimes(huge, nil, schedule.Options{})
		require.Nil(t, analysis)
		var shapeErr *schedule.InputShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "end_date", shapeErr.Field)
		assert.Contains(t, err.Error(), "3652059 days")
	})

	t.Run("custom max days", func(t *testing.T) {
		week := schedule.EventWindow{StartDate: "2024-03-01", EndDate: "2024-03-07", StartTime: "09:00", EndTime: "10:00"}

		_, err := schedule.ComputeBestTimes(week, nil, schedule.Options{MaxDays: 6})
		var shapeErr *schedule.InputShapeError
		require.ErrorAs(t, err, &shapeErr)

		analysis, err := schedule.ComputeBestTimes(week, nil, schedule.Options{MaxDays: 7})
		require.NoError(t, err)
		assert.Len(t, analysis.EventDates, 7)
	})

	t.Run("grid larger than max slots", func(t *testing.T) {
		year := schedule.EventWindow{StartDate: "2024-01-01", EndDate: "2024-12-31", StartTime: "00:00", EndTime: "23:59"}

		analysis, err := schedule.ComputeBestTimes(year, nil, schedule.Options{IntervalMinutes: 1})
		require.Nil(t, analysis)
		var shapeErr *schedule.InputShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "grid", shapeErr.Field)
	})
}
