package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

// MatchPhase is the competition stage a fixture belongs to.
type MatchPhase string

const (
	PhaseLeague       MatchPhase = "league"
	PhaseGroup        MatchPhase = "group"
	PhaseRoundOf64    MatchPhase = "round_of_64"
	PhaseRoundOf32    MatchPhase = "round_of_32"
	PhaseRoundOf16    MatchPhase = "round_of_16"
	PhaseQuarterfinal MatchPhase = "quarterfinal"
	PhaseSemifinal    MatchPhase = "semifinal"
	PhaseFinal        MatchPhase = "final"
)

// PhaseForTeamCount labels a knockout round by how many teams remain in it.
// A bracket down to its last two participants is always the final.
func PhaseForTeamCount(teams int) MatchPhase {
	switch {
	case teams <= 2:
		return PhaseFinal
	case teams > 32:
		return PhaseRoundOf64
	case teams > 16:
		return PhaseRoundOf32
	case teams > 8:
		return PhaseRoundOf16
	case teams > 4:
		return PhaseQuarterfinal
	default:
		return PhaseSemifinal
	}
}

// ConfirmRole identifies a party attesting a completed match result.
type ConfirmRole string

const (
	ConfirmRoleHome    ConfirmRole = "home"
	ConfirmRoleAway    ConfirmRole = "away"
	ConfirmRoleReferee ConfirmRole = "referee"
)

// Match представляет матч между двумя командами турнира.
type Match struct {
	ID            int         `json:"id" db:"id"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	HomeTeamID    int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    int         `json:"away_team_id" db:"away_team_id"`
	ScheduledDate time.Time   `json:"scheduled_date" db:"scheduled_date"`
	Location      *string     `json:"location,omitempty" db:"location"`
	Phase         MatchPhase  `json:"phase" db:"phase"`
	Group         *string     `json:"group,omitempty" db:"group_label"`
	Round         int         `json:"round" db:"round"`
	Status        MatchStatus `json:"status" db:"status"`

	HomeScore         *int `json:"home_score,omitempty" db:"home_score"`
	AwayScore         *int `json:"away_score,omitempty" db:"away_score"`
	HalfTimeHomeScore *int `json:"half_time_home_score,omitempty" db:"ht_home_score"`
	HalfTimeAwayScore *int `json:"half_time_away_score,omitempty" db:"ht_away_score"`
	HasPenalties      bool `json:"has_penalties" db:"has_penalties"`
	HomePenaltyScore  *int `json:"home_penalty_score,omitempty" db:"home_penalty_score"`
	AwayPenaltyScore  *int `json:"away_penalty_score,omitempty" db:"away_penalty_score"`

	RefereeID          *int       `json:"referee_id,omitempty" db:"referee_id"`
	HomeConfirmed      bool       `json:"home_confirmed" db:"home_confirmed"`
	HomeConfirmedAt    *time.Time `json:"home_confirmed_at,omitempty" db:"home_confirmed_at"`
	AwayConfirmed      bool       `json:"away_confirmed" db:"away_confirmed"`
	AwayConfirmedAt    *time.Time `json:"away_confirmed_at,omitempty" db:"away_confirmed_at"`
	RefereeConfirmed   bool       `json:"referee_confirmed" db:"referee_confirmed"`
	RefereeConfirmedAt *time.Time `json:"referee_confirmed_at,omitempty" db:"referee_confirmed_at"`

	Events []MatchEvent `json:"events,omitempty" db:"-"`
}

// FullyConfirmed reports whether every applicable party has confirmed the
// result. Referee confirmation only applies when a referee is assigned.
func (m *Match) FullyConfirmed() bool {
	if m.Status != MatchStatusCompleted {
		return false
	}
	if !m.HomeConfirmed || !m.AwayConfirmed {
		return false
	}
	if m.RefereeID != nil && !m.RefereeConfirmed {
		return false
	}
	return true
}

// HasTeam reports whether teamID is one of the two participants.
func (m *Match) HasTeam(teamID int) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

// MatchDraft is an unsaved fixture emitted by the schedule generators and the
// bracket progression. A draft with IsBye set is not a playable fixture: the
// bye team advances to the next round automatically.
type MatchDraft struct {
	TournamentID  int        `json:"tournament_id"`
	HomeTeamID    *int       `json:"home_team_id,omitempty"`
	AwayTeamID    *int       `json:"away_team_id,omitempty"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Location      *string    `json:"location,omitempty"`
	Phase         MatchPhase `json:"phase"`
	Group         *string    `json:"group,omitempty"`
	Round         int        `json:"round"`
	IsBye         bool       `json:"is_bye,omitempty"`
	ByeTeamID     *int       `json:"bye_team_id,omitempty"`
}
