package models

import "time"

type MatchEventType string

const (
	EventGoal            MatchEventType = "goal"
	EventOwnGoal         MatchEventType = "own_goal"
	EventYellowCard      MatchEventType = "yellow_card"
	EventRedCard         MatchEventType = "red_card"
	EventSecondYellow    MatchEventType = "second_yellow"
	EventPenaltyGoal     MatchEventType = "penalty_goal"
	EventPenaltyMissed   MatchEventType = "penalty_missed"
	EventPenaltySaved    MatchEventType = "penalty_saved"
	EventSubstitutionIn  MatchEventType = "substitution_in"
	EventSubstitutionOut MatchEventType = "substitution_out"
	EventInjury          MatchEventType = "injury"
	EventAssist          MatchEventType = "assist"
)

// Halves 1 and 2 are regulation, 3 and 4 extra time, 5 the penalty shootout.
const (
	HalfFirst       = 1
	HalfSecond      = 2
	HalfExtraFirst  = 3
	HalfExtraSecond = 4
	HalfPenalties   = 5
)

// MatchEvent is a discrete in-match occurrence. Events are append-only; a
// correction is a remove followed by an add, never an in-place update.
type MatchEvent struct {
	ID                int            `json:"id" db:"id"`
	MatchID           int            `json:"match_id" db:"match_id"`
	Type              MatchEventType `json:"type" db:"type"`
	Half              int            `json:"half" db:"half"`
	Minute            int            `json:"minute" db:"minute"`
	AddedTime         int            `json:"added_time" db:"added_time"`
	TeamID            int            `json:"team_id" db:"team_id"`
	PlayerID          int            `json:"player_id" db:"player_id"`
	SecondaryPlayerID *int           `json:"secondary_player_id,omitempty" db:"secondary_player_id"`
	FieldX            *float64       `json:"field_x,omitempty" db:"field_x"`
	FieldY            *float64       `json:"field_y,omitempty" db:"field_y"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}

// RequiresSecondaryPlayer reports whether this event type must reference a
// second player (the assisted scorer, or the other side of a substitution).
func (t MatchEventType) RequiresSecondaryPlayer() bool {
	switch t {
	case EventAssist, EventSubstitutionIn, EventSubstitutionOut:
		return true
	default:
		return false
	}
}
