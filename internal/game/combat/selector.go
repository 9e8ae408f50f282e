package combat

// ActionKind is what an enemy decided to do this turn.
type ActionKind int

const (
	ActionBasicAttack ActionKind = iota
	ActionUseSkill
)

// String returns a lowercase label.
func (k ActionKind) String() string {
	switch k {
	case ActionBasicAttack:
		return "basic_attack"
	case ActionUseSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// Action is an enemy decision.
//
// Invariant: Skill is non-nil iff Kind == ActionUseSkill.
type Action struct {
	Kind  ActionKind
	Skill *KnownSkill
}

// ActionSelector chooses what an enemy does on its turn. Implementations may
// read but must not mutate the enemy.
type ActionSelector interface {
	ChooseAction(enemy *Combatant) Action
}

// ActionSelectorFunc adapts a function to ActionSelector.
type ActionSelectorFunc func(enemy *Combatant) Action

// ChooseAction calls f(enemy).
func (f ActionSelectorFunc) ChooseAction(enemy *Combatant) Action { return f(enemy) }

// AlwaysAttack is the selector that never uses skills.
var AlwaysAttack ActionSelector = ActionSelectorFunc(func(*Combatant) Action {
	return Action{Kind: ActionBasicAttack}
})
