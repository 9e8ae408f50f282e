package ai

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/scripting"
)

// ScriptCaller is the interface required to evaluate Lua AI hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given pack's VM.
	CallHook(packID, hook string, args ...any) (lua.LValue, error)
}

// ScriptedSelector asks the Lua function named by enemy.AIHook what to do.
// The hook receives a table describing the enemy and returns a ready skill id,
// the string "attack", or nil (also attack). Enemies without a hook, missing
// hooks, script errors and unusable answers all defer to the fallback policy.
type ScriptedSelector struct {
	caller   ScriptCaller
	packID   string
	fallback combat.ActionSelector
	logger   *zap.Logger
}

// NewScriptedSelector creates a ScriptedSelector.
//
// Precondition: caller and fallback must be non-nil; logger may be nil.
func NewScriptedSelector(caller ScriptCaller, packID string, fallback combat.ActionSelector, logger *zap.Logger) *ScriptedSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptedSelector{caller: caller, packID: packID, fallback: fallback, logger: logger}
}

// ChooseAction implements combat.ActionSelector.
func (s *ScriptedSelector) ChooseAction(enemy *combat.Combatant) combat.Action {
	if enemy.AIHook == "" {
		return s.fallback.ChooseAction(enemy)
	}
	ret, err := s.caller.CallHook(s.packID, enemy.AIHook, EnemyView(enemy))
	if err != nil {
		if !errors.Is(err, scripting.ErrNoHook) {
			s.logger.Warn("ai hook failed, using fallback",
				zap.String("enemy", enemy.ID),
				zap.String("hook", enemy.AIHook),
				zap.Error(err),
			)
		}
		return s.fallback.ChooseAction(enemy)
	}

	switch v := ret.(type) {
	case *lua.LNilType:
		return combat.Action{Kind: combat.ActionBasicAttack}
	case lua.LString:
		id := string(v)
		if id == "attack" {
			return combat.Action{Kind: combat.ActionBasicAttack}
		}
		if k := enemy.Skill(id); k != nil && k.Ready() {
			return combat.Action{Kind: combat.ActionUseSkill, Skill: k}
		}
		s.logger.Debug("ai hook chose an unusable skill",
			zap.String("enemy", enemy.ID),
			zap.String("skill", id),
		)
	default:
		s.logger.Debug("ai hook returned a non-string",
			zap.String("enemy", enemy.ID),
			zap.String("type", ret.Type().String()),
		)
	}
	return s.fallback.ChooseAction(enemy)
}

// EnemyView is the read-only table an AI hook receives.
func EnemyView(c *combat.Combatant) map[string]any {
	ready := make([]string, 0, len(c.Skills))
	for _, k := range c.ReadySkills() {
		ready = append(ready, k.ID)
	}
	statuses := []string{}
	if c.Statuses != nil {
		for _, e := range c.Statuses.All() {
			statuses = append(statuses, e.Name)
		}
	}
	return map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"tier":     c.Tier.String(),
		"level":    c.Level,
		"hp":       c.Health,
		"max_hp":   c.MaxHealth,
		"mana":     c.Mana,
		"max_mana": c.MaxMana,
		"element":  string(c.Element),
		"ready":    ready,
		"statuses": statuses,
	}
}
