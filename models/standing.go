package models

// StandingRow is a derived projection recomputed from completed matches.
// It is never persisted as a source of truth.
type StandingRow struct {
	TeamID         int  `json:"team_id"`
	Played         int  `json:"played"`
	Won            int  `json:"won"`
	Drawn          int  `json:"drawn"`
	Lost           int  `json:"lost"`
	GoalsFor       int  `json:"goals_for"`
	GoalsAgainst   int  `json:"goals_against"`
	GoalDifference int  `json:"goal_difference"`
	Points         int  `json:"points"`
	Rank           *int `json:"rank,omitempty"`
}
