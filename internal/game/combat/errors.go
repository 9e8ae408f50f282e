package combat

import (
	"errors"
	"fmt"
)

// Recoverable command errors. They are reported to the caller and never change
// battle state.
var (
	ErrActionNotAllowed  = errors.New("action not allowed in the current battle state")
	ErrInsufficientMana  = errors.New("insufficient mana")
	ErrOnCooldown        = errors.New("skill is on cooldown")
	ErrNoValidTarget     = errors.New("no valid target")
	ErrInvalidTarget     = fmt.Errorf("%w: target is already dead or not in this battle", ErrNoValidTarget)
	ErrBossFleeForbidden = errors.New("cannot flee from a boss battle")
	ErrUnknownSkill      = errors.New("combatant does not know that skill")
	ErrInvalidItem       = errors.New("invalid item effect")
)

// OnCooldownError reports the turns left before a skill is ready again.
// It matches ErrOnCooldown with errors.Is.
type OnCooldownError struct {
	SkillID        string
	TurnsRemaining int
}

func (e *OnCooldownError) Error() string {
	return fmt.Sprintf("skill %q is on cooldown for %d more turn(s)", e.SkillID, e.TurnsRemaining)
}

// Is lets errors.Is(err, ErrOnCooldown) succeed.
func (e *OnCooldownError) Is(target error) bool { return target == ErrOnCooldown }
