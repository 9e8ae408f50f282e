package sim

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rogue/internal/game/combat"
)

// Summary aggregates many reports.
type Summary struct {
	Runs       int
	Victories  int
	Defeats    int
	Fled       int
	Aborted    int
	TurnLimits int

	AvgTurns      float64
	AvgExperience float64
	AvgGold       float64
	AvgCrits      float64
	ItemsDropped  int
	ItemsUsed     int
}

// WinRate returns the fraction of runs won.
func (s Summary) WinRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Runs)
}

// Summarize folds reports into a Summary.
func Summarize(reports []Report) Summary {
	s := Summary{Runs: len(reports)}
	if s.Runs == 0 {
		return s
	}
	var turns, exp, gold, crits int
	for _, r := range reports {
		switch {
		case r.Outcome.Aborted:
			s.Aborted++
		case r.State == combat.StateVictory:
			s.Victories++
		case r.State == combat.StateFled:
			s.Fled++
		case r.State == combat.StateDefeat:
			s.Defeats++
		}
		if r.TurnLimitHit {
			s.TurnLimits++
		}
		turns += r.Outcome.TurnCount
		exp += r.Outcome.Rewards.Experience
		gold += r.Outcome.Rewards.Gold
		crits += r.Outcome.CriticalHits
		s.ItemsDropped += len(r.Outcome.Rewards.Items)
		s.ItemsUsed += r.ItemsUsed
	}
	n := float64(s.Runs)
	s.AvgTurns = float64(turns) / n
	s.AvgExperience = float64(exp) / n
	s.AvgGold = float64(gold) / n
	s.AvgCrits = float64(crits) / n
	return s
}

// String renders s as a small table.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "runs:        %d\n", s.Runs)
	fmt.Fprintf(&b, "win rate:    %.1f%%\n", s.WinRate()*100)
	fmt.Fprintf(&b, "victories:   %d  defeats: %d  fled: %d  aborted: %d (turn limit %d)\n",
		s.Victories, s.Defeats, s.Fled, s.Aborted, s.TurnLimits)
	fmt.Fprintf(&b, "avg turns:   %.2f\n", s.AvgTurns)
	fmt.Fprintf(&b, "avg crits:   %.2f\n", s.AvgCrits)
	fmt.Fprintf(&b, "avg exp:     %.1f\n", s.AvgExperience)
	fmt.Fprintf(&b, "avg gold:    %.1f\n", s.AvgGold)
	fmt.Fprintf(&b, "items:       %d dropped, %d used\n", s.ItemsDropped, s.ItemsUsed)
	return b.String()
}

// Describe renders one event as a log line for verbose runs.
func Describe(ev combat.Event) string {
	switch ev.Type {
	case combat.EventStateChanged:
		return fmt.Sprintf("-- %s -> %s", ev.From, ev.To)
	case combat.EventTargetSelected:
		return fmt.Sprintf("%s targets %s", ev.ActorID, ev.TargetID)
	case combat.EventAttack:
		return fmt.Sprintf("%s attacks %s", ev.ActorID, ev.TargetID)
	case combat.EventSkillUsed:
		return fmt.Sprintf("%s uses %s", ev.ActorID, ev.SkillID)
	case combat.EventDamage:
		if ev.Damage == nil {
			return fmt.Sprintf("%s takes %d damage", ev.TargetID, ev.Amount)
		}
		crit := ""
		if ev.Damage.IsCritical {
			crit = " (critical)"
		}
		return fmt.Sprintf("%s takes %d %s damage%s", ev.TargetID, ev.Damage.Amount, ev.Damage.Element, crit)
	case combat.EventHeal:
		return fmt.Sprintf("%s recovers %d health", ev.TargetID, ev.Amount)
	case combat.EventManaRestored:
		return fmt.Sprintf("%s recovers %d mana", ev.TargetID, ev.Amount)
	case combat.EventStatusApplied:
		verb := "gains"
		if ev.Refreshed {
			verb = "refreshes"
		}
		return fmt.Sprintf("%s %s %s", ev.TargetID, verb, statusName(ev))
	case combat.EventStatusTick:
		return fmt.Sprintf("%s: %s ticks for %+d", ev.TargetID, statusName(ev), ev.Amount)
	case combat.EventStatusExpired:
		return fmt.Sprintf("%s: %s wears off", ev.TargetID, statusName(ev))
	case combat.EventDefend:
		return fmt.Sprintf("%s defends", ev.ActorID)
	case combat.EventItemUsed:
		return fmt.Sprintf("%s uses item %s", ev.ActorID, ev.ItemID)
	case combat.EventFleeFailed:
		return fmt.Sprintf("%s fails to flee", ev.ActorID)
	case combat.EventDeath:
		return fmt.Sprintf("%s is defeated", ev.TargetID)
	case combat.EventReward:
		if ev.Rewards == nil {
			return "reward"
		}
		return fmt.Sprintf("reward: %d exp, %d gold, %d items", ev.Rewards.Experience, ev.Rewards.Gold, len(ev.Rewards.Items))
	default:
		return ev.Type.String()
	}
}

func statusName(ev combat.Event) string {
	if ev.Status == nil {
		return "status"
	}
	return ev.Status.Name
}
