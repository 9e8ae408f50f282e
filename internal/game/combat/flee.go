package combat

const (
	fleeBase       = 0.4
	fleeSpeedScale = 0.3
	fleeCrowdScale = 0.2
	// MinFleeChance and MaxFleeChance bound every flee attempt.
	MinFleeChance = 0.2
	MaxFleeChance = 0.8
)

// FleeChance returns the probability that a flee attempt succeeds:
//
//	clamp(0.2, 0.8, 0.4 + (speed/100)×0.3 − (aliveEnemies/5)×0.2)
//
// Postcondition: MinFleeChance <= result <= MaxFleeChance.
func FleeChance(playerSpeed, aliveEnemies int) float64 {
	c := fleeBase + float64(playerSpeed)/100*fleeSpeedScale - float64(aliveEnemies)/5*fleeCrowdScale
	switch {
	case c < MinFleeChance:
		return MinFleeChance
	case c > MaxFleeChance:
		return MaxFleeChance
	default:
		return c
	}
}
