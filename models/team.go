package models

import "time"

// Team is owned by the surrounding team-management subsystem; the engine only
// needs its identity.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	RosterID  *int      `json:"roster_id,omitempty" db:"roster_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
