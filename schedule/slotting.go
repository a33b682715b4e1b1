package schedule

import (
	"time"

	"github.com/Manecharo/verzot-sub000/models"
)

// SlotPolicy controls the default date assignment: MatchesPerDay fixtures per
// matchday, matchdays DayInterval calendar days apart, kickoffs HourInterval
// hours apart within a day.
type SlotPolicy struct {
	MatchesPerDay int
	DayInterval   int
	HourInterval  int
}

func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{
		MatchesPerDay: 3,
		DayInterval:   2,
		HourInterval:  2,
	}
}

// ApplySlots assigns dates to drafts that carry none. Drafts with an explicit
// date (manual mode) and bye markers are left untouched. The first kickoff is
// at start; slotting counts only playable fixtures.
func ApplySlots(drafts []*models.MatchDraft, start time.Time, policy SlotPolicy) {
	if policy.MatchesPerDay < 1 {
		policy = DefaultSlotPolicy()
	}

	slot := 0
	for _, d := range drafts {
		if d.IsBye {
			continue
		}
		if !d.ScheduledDate.IsZero() {
			continue
		}
		day := slot / policy.MatchesPerDay
		offset := slot % policy.MatchesPerDay
		d.ScheduledDate = start.
			AddDate(0, 0, day*policy.DayInterval).
			Add(time.Duration(offset*policy.HourInterval) * time.Hour)
		slot++
	}
}
