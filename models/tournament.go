package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentStatusDraft              TournamentStatus = "draft"
	TournamentStatusPublished          TournamentStatus = "published"
	TournamentStatusRegistrationOpen   TournamentStatus = "registration_open"
	TournamentStatusRegistrationClosed TournamentStatus = "registration_closed"
	TournamentStatusInProgress         TournamentStatus = "in_progress"
	TournamentStatusCompleted          TournamentStatus = "completed"
	TournamentStatusCanceled           TournamentStatus = "canceled"
)

// TournamentFormat определяет схему розыгрыша турнира.
type TournamentFormat string

const (
	FormatLeague            TournamentFormat = "league"
	FormatGroup             TournamentFormat = "group"
	FormatKnockout          TournamentFormat = "knockout"
	FormatGroupKnockout     TournamentFormat = "group_knockout"
	FormatDoubleElimination TournamentFormat = "double_elimination"
)

// Tournament представляет турнир.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Format      TournamentFormat `json:"format" db:"format"`
	Structure   StructureConfig  `json:"structure" db:"-"`
	Rules       Rules            `json:"rules" db:"-"`
	Tiebreakers TiebreakerRules  `json:"tiebreaker_rules" db:"-"`
	MinTeams    int              `json:"min_teams" db:"min_teams"`
	MaxTeams    int              `json:"max_teams" db:"max_teams"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Location    *string          `json:"location,omitempty" db:"location"`
	Status      TournamentStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	BadgeKey    *string          `json:"-" db:"badge_key"`
	BadgeURL    *string          `json:"badge_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

// StructureConfig describes how the fixture list is built for a tournament.
type StructureConfig struct {
	Variant             string `json:"variant,omitempty"`
	GroupCount          int    `json:"group_count,omitempty"`
	TeamsPerGroup       int    `json:"teams_per_group,omitempty"`
	AdvancingTeamsCount int    `json:"advancing_teams_count,omitempty"`
}

// Rules holds the match rules consumed verbatim by the engine.
type Rules struct {
	MatchDurationMinutes int  `json:"match_duration_minutes"`
	PointsForWin         int  `json:"points_for_win"`
	PointsForDraw        int  `json:"points_for_draw"`
	PointsForLoss        int  `json:"points_for_loss"`
	SubstitutesAllowed   int  `json:"substitutes_allowed"`
	UseExtraTime         bool `json:"use_extra_time"`
	UsePenaltyShootout   bool `json:"use_penalty_shootout"`
}

// TiebreakerCriterion is one link of the standings tiebreaker chain.
type TiebreakerCriterion string

const (
	TiebreakPoints         TiebreakerCriterion = "points"
	TiebreakHeadToHead     TiebreakerCriterion = "headToHead"
	TiebreakGoalDifference TiebreakerCriterion = "goalDifference"
	TiebreakGoalsFor       TiebreakerCriterion = "goalsFor"
	TiebreakFairPlay       TiebreakerCriterion = "fairPlay"
	TiebreakRandom         TiebreakerCriterion = "random"
)

// TiebreakerRules configures the ordered criteria chain. Card point values
// have no universal default and must be set whenever fairPlay is used.
type TiebreakerRules struct {
	Criteria         []TiebreakerCriterion `json:"criteria"`
	YellowCardPoints int                   `json:"yellow_card_points,omitempty"`
	RedCardPoints    int                   `json:"red_card_points,omitempty"`
}
