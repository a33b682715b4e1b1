package brackets

import "fmt"

// RoundName labels a knockout round by its distance from the final.
// roundIndex counts from 1; totalRounds is the bracket depth.
func RoundName(roundIndex, totalRounds int) string {
	switch totalRounds - roundIndex {
	case 0:
		return "final"
	case 1:
		return "semifinal"
	case 2:
		return "quarterfinal"
	case 3:
		return "roundOf16"
	case 4:
		return "roundOf32"
	case 5:
		return "roundOf64"
	default:
		return fmt.Sprintf("Round %d", roundIndex)
	}
}
