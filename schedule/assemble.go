package schedule

// NewRoster indexes the display records of the given participants.
func NewRoster(participants []ParticipantAvailability) Roster {
	roster := make(Roster, len(participants))
	for _, p := range participants {
		roster[p.ParticipantID] = Participant{ID: p.ParticipantID, Name: p.Name, ExternalID: p.ExternalID}
	}
	return roster
}

// Lookup returns the participant for id, or a record named UnknownParticipant.
func (r Roster) Lookup(id string) Participant {
	if p, ok := r[id]; ok {
		if p.Name == "" {
			p.Name = UnknownParticipant
		}
		return p
	}
	return Participant{ID: id, Name: UnknownParticipant}
}

// Assemble joins ranked slots with the roster for presentation.
func Assemble(selected []RankedSlot, roster Roster) []BestTime {
	best := make([]BestTime, 0, len(selected))
	for _, s := range selected {
		details := make([]Participant, 0, len(s.ParticipantIDs))
		for _, id := range s.ParticipantIDs {
			details = append(details, roster.Lookup(id))
		}
		best = append(best, BestTime{
			Date:                    s.Date,
			Time:                    s.Time,
			AvailableParticipantIDs: s.ParticipantIDs,
			AvailableCount:          len(s.ParticipantIDs),
			AvailabilityPercentage:  s.Percentage,
			ParticipantDetails:      details,
		})
	}
	return best
}
