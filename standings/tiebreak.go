package standings

import (
	"hash/fnv"

	"github.com/Manecharo/verzot-sub000/models"
)

// chain compares two rows by walking the criteria in order and stopping at
// the first criterion that separates them. Criteria beyond the first
// separating one are never consulted for that pair, which is exactly the
// "applied only to the still-tied subset" rule expressed pairwise.
type chain struct {
	criteria   []models.TiebreakerCriterion
	mutual     map[[2]int][]*models.Match
	discipline map[int]int
	seed       int64
	randomUsed bool
}

func newChain(criteria []models.TiebreakerCriterion, input Input) *chain {
	c := &chain{
		criteria:   criteria,
		mutual:     make(map[[2]int][]*models.Match),
		discipline: input.Discipline,
		seed:       input.Seed,
	}
	for _, m := range input.Matches {
		if m.Status != models.MatchStatusCompleted || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		key := pairKey(m.HomeTeamID, m.AwayTeamID)
		c.mutual[key] = append(c.mutual[key], m)
	}
	return c
}

func (c *chain) less(a, b *models.StandingRow) bool {
	for _, criterion := range c.criteria {
		if cmp := c.compare(criterion, a, b); cmp != 0 {
			return cmp > 0
		}
	}
	return false
}

// compare returns >0 when a ranks above b, <0 when below, 0 when the
// criterion does not separate them.
func (c *chain) compare(criterion models.TiebreakerCriterion, a, b *models.StandingRow) int {
	switch criterion {
	case models.TiebreakPoints:
		return a.Points - b.Points
	case models.TiebreakGoalDifference:
		return a.GoalDifference - b.GoalDifference
	case models.TiebreakGoalsFor:
		return a.GoalsFor - b.GoalsFor
	case models.TiebreakHeadToHead:
		return c.compareHeadToHead(a.TeamID, b.TeamID)
	case models.TiebreakFairPlay:
		// Fewer disciplinary points ranks higher.
		return c.discipline[b.TeamID] - c.discipline[a.TeamID]
	case models.TiebreakRandom:
		if a.TeamID == b.TeamID {
			return 0
		}
		c.randomUsed = true
		return c.compareSeeded(a.TeamID, b.TeamID)
	default:
		return 0
	}
}

// compareHeadToHead looks only at the fixtures the two teams played against
// each other: goal difference across those, then goals scored in them.
func (c *chain) compareHeadToHead(teamA, teamB int) int {
	var goalsA, goalsB int
	for _, m := range c.mutual[pairKey(teamA, teamB)] {
		if m.HomeTeamID == teamA {
			goalsA += *m.HomeScore
			goalsB += *m.AwayScore
		} else {
			goalsA += *m.AwayScore
			goalsB += *m.HomeScore
		}
	}
	// Between exactly two teams, mutual goal difference and mutual goals
	// scored tie or separate together, so one comparison covers both steps.
	return goalsA - goalsB
}

// compareSeeded is the terminal fallback: a stable pseudo-random order from
// an FNV hash of (seed, team id). Distinct ids always separate, so the final
// ordering is a strict total order.
func (c *chain) compareSeeded(teamA, teamB int) int {
	ha := c.seededHash(teamA)
	hb := c.seededHash(teamB)
	if ha != hb {
		if ha > hb {
			return 1
		}
		return -1
	}
	// Hash collision: fall back to the ids themselves.
	return teamB - teamA
}

func (c *chain) seededHash(teamID int) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(c.seed >> (8 * i))
		buf[8+i] = byte(teamID >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

func pairKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}
