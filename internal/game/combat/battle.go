package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/dice"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

// State is a Turn Controller state.
type State int

const (
	StatePlayerTurn State = iota
	StateResolvingPlayerAction
	StateEnemyTurn
	StateResolvingEnemyAction
	StateVictory
	StateDefeat
	StateFled
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StatePlayerTurn:
		return "player_turn"
	case StateResolvingPlayerAction:
		return "resolving_player_action"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateResolvingEnemyAction:
		return "resolving_enemy_action"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further commands are accepted in s.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateFled
}

// Setup is everything needed to start one battle. The battle takes exclusive
// ownership of Player and Enemies; callers should pass fresh copies.
type Setup struct {
	ID         string
	Player     *Combatant
	Enemies    []*Combatant
	BossBattle bool
	// CritChance is the base crit probability of every hit, normally
	// DefaultCritChance.
	CritChance float64
	Elements   *element.Table
	Source     dice.Source
	// Selector defaults to AlwaysAttack.
	Selector ActionSelector
	// Rewards may be nil, in which case no rewards accrue.
	Rewards RewardCalculator
	Logger  *zap.Logger
	// Observer, when set, receives every event synchronously as it happens.
	Observer func(Event)
}

// Result is the synchronous reply to a command.
type Result struct {
	State   State
	Events  []Event
	Player  Snapshot
	Enemies []Snapshot
	// Outcome is set once the battle reached a terminal state.
	Outcome *Outcome
}

// Battle is the turn state machine for one player against a group of enemies.
// It owns all combat state for its lifetime. A Battle is single-threaded: the
// caller must serialise commands.
type Battle struct {
	id         string
	state      State
	boss       bool
	critChance float64

	player  *Combatant
	enemies []*Combatant
	target  *Combatant
	queue   []*Combatant

	src      dice.Source
	calc     *Calculator
	resolver *Resolver
	selector ActionSelector
	rewards  RewardCalculator
	logger   *zap.Logger
	observer func(Event)

	outcome   Outcome
	finalized bool
	busy      bool
	events    []Event
}

// NewBattle validates setup and enters the initial PlayerTurn, ticking the
// player's statuses and cooldowns once.
//
// Precondition: Player must be player-controlled; at least one enemy; Source non-nil.
// Postcondition: Returns a Battle in StatePlayerTurn, or an error describing the
// first malformed input. No battle is created on error.
func NewBattle(s Setup) (*Battle, error) {
	if s.Player == nil {
		return nil, errors.New("battle: player must not be nil")
	}
	if !s.Player.PlayerControlled {
		return nil, fmt.Errorf("battle: combatant %q is not player-controlled", s.Player.ID)
	}
	if len(s.Enemies) == 0 {
		return nil, errors.New("battle: at least one enemy is required")
	}
	if s.Source == nil {
		return nil, errors.New("battle: random source must not be nil")
	}
	if s.CritChance < 0 || s.CritChance > 1 {
		return nil, fmt.Errorf("battle: crit chance must be in [0, 1], got %v", s.CritChance)
	}
	ids := map[string]struct{}{}
	for _, c := range append([]*Combatant{s.Player}, s.Enemies...) {
		if c == nil {
			return nil, errors.New("battle: nil combatant")
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("battle: %w", err)
		}
		if _, dup := ids[c.ID]; dup {
			return nil, fmt.Errorf("battle: duplicate combatant id %q", c.ID)
		}
		ids[c.ID] = struct{}{}
		if c.Statuses == nil {
			c.Statuses = condition.NewActiveSet()
		}
	}
	for _, e := range s.Enemies {
		if e.PlayerControlled {
			return nil, fmt.Errorf("battle: enemy %q is player-controlled", e.ID)
		}
		if e.Health == 0 {
			return nil, fmt.Errorf("battle: enemy %q starts with 0 health", e.ID)
		}
	}
	if s.Player.Health == 0 {
		return nil, fmt.Errorf("battle: player %q starts with 0 health", s.Player.ID)
	}

	crit := s.CritChance
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	selector := s.Selector
	if selector == nil {
		selector = AlwaysAttack
	}
	calc := NewCalculator(s.Elements, s.Source)
	b := &Battle{
		id:         s.ID,
		boss:       s.BossBattle,
		critChance: crit,
		player:     s.Player,
		enemies:    s.Enemies,
		target:     s.Enemies[0],
		src:        s.Source,
		calc:       calc,
		resolver:   NewResolver(calc, crit),
		selector:   selector,
		rewards:    s.Rewards,
		logger:     logger.With(zap.String("battle", s.ID)),
		observer:   s.Observer,
	}
	b.startPlayerTurn()
	b.events = nil
	b.logger.Info("battle started",
		zap.String("player", b.player.ID),
		zap.Int("enemies", len(b.enemies)),
		zap.Bool("boss", b.boss),
	)
	return b, nil
}

// ID returns the battle id.
func (b *Battle) ID() string { return b.id }

// State returns the current state.
func (b *Battle) State() State { return b.state }

// IsBossBattle reports whether flee is forbidden.
func (b *Battle) IsBossBattle() bool { return b.boss }

// Player returns the player combatant. Callers must not mutate it.
func (b *Battle) Player() *Combatant { return b.player }

// Enemies returns the enemy list, including dead enemies. Callers must not mutate it.
func (b *Battle) Enemies() []*Combatant { return b.enemies }

// Target returns the current target, which may be dead.
func (b *Battle) Target() *Combatant { return b.target }

// Outcome returns the running battle summary.
func (b *Battle) Outcome() Outcome { return b.outcome }

// LivingEnemies returns the enemies that are still alive, in list order.
func (b *Battle) LivingEnemies() []*Combatant {
	var alive []*Combatant
	for _, e := range b.enemies {
		if e.IsAlive() {
			alive = append(alive, e)
		}
	}
	return alive
}

// Snapshot returns the current state without issuing a command.
func (b *Battle) Snapshot() *Result {
	return b.result()
}

// SelectTarget changes the current target.
//
// Postcondition: Returns ErrActionNotAllowed outside PlayerTurn and
// ErrInvalidTarget for an unknown or dead enemy; state is unchanged either way.
func (b *Battle) SelectTarget(enemyID string) (*Result, error) {
	if err := b.requirePlayerTurn("select_target"); err != nil {
		return nil, err
	}
	var found *Combatant
	for _, e := range b.enemies {
		if e.ID == enemyID {
			found = e
			break
		}
	}
	if found == nil || found.IsDead() {
		return nil, fmt.Errorf("select target %q: %w", enemyID, ErrInvalidTarget)
	}
	b.events = nil
	b.target = found
	b.emit(Event{Type: EventTargetSelected, ActorID: b.player.ID, TargetID: found.ID})
	return b.result(), nil
}

// Attack performs a basic attack against the current target.
func (b *Battle) Attack() (*Result, error) {
	if err := b.requirePlayerTurn("attack"); err != nil {
		return nil, err
	}
	target, err := b.liveTarget()
	if err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}
	b.beginPlayerAction()
	b.emit(Event{Type: EventAttack, ActorID: b.player.ID, TargetID: target.ID})
	dr := b.calc.Compute(b.player, target, BasicHit(b.critChance))
	b.applyDamage(b.player, target, dr)
	b.finishPlayerAction()
	return b.result(), nil
}

// UseSkill uses the player's skill skillID.
//
// Postcondition: On ErrUnknownSkill, OnCooldownError, ErrInsufficientMana,
// ErrNoValidTarget or ErrInvalidTarget no mana is spent and no cooldown is set.
func (b *Battle) UseSkill(skillID string) (*Result, error) {
	if err := b.requirePlayerTurn("use_skill"); err != nil {
		return nil, err
	}
	ks := b.player.Skill(skillID)
	if ks == nil {
		return nil, fmt.Errorf("use skill %q: %w", skillID, ErrUnknownSkill)
	}
	if !ks.Ready() {
		return nil, &OnCooldownError{SkillID: skillID, TurnsRemaining: ks.CurrentCooldown}
	}
	if b.player.Mana < ks.ManaCost {
		return nil, fmt.Errorf("use skill %q: need %d mana, have %d: %w", skillID, ks.ManaCost, b.player.Mana, ErrInsufficientMana)
	}
	if _, err := b.resolver.Targets(ks.Skill, b.player, b.enemies, b.target); err != nil {
		return nil, fmt.Errorf("use skill %q: %w", skillID, err)
	}

	b.beginPlayerAction()
	b.player.Mana -= ks.ManaCost
	ks.CurrentCooldown = ks.Cooldown
	b.outcome.SkillsUsed++
	b.emit(Event{Type: EventSkillUsed, ActorID: b.player.ID, SkillID: ks.ID, Amount: ks.ManaCost})
	if _, err := b.resolver.Resolve(ks.Skill, b.player, b.enemies, b.target, battleApplier{b}); err != nil {
		// Targets was checked above; nothing can have died in between.
		b.logger.Error("skill resolution failed after validation", zap.String("skill", ks.ID), zap.Error(err))
	}
	b.finishPlayerAction()
	return b.result(), nil
}

// Defend applies a one-turn stance that doubles the player's effective defense.
func (b *Battle) Defend() (*Result, error) {
	if err := b.requirePlayerTurn("defend"); err != nil {
		return nil, err
	}
	b.beginPlayerAction()
	b.emit(Event{Type: EventDefend, ActorID: b.player.ID})
	if err := b.applyStatus(b.player, b.player, condition.DefendEffect()); err != nil {
		b.logger.Error("applying defend stance", zap.Error(err))
	}
	b.finishPlayerAction()
	return b.result(), nil
}

// UseItem applies a consumable effect already resolved by the inventory. It
// costs no mana and sets no cooldown.
func (b *Battle) UseItem(effect ItemEffect) (*Result, error) {
	if err := b.requirePlayerTurn("use_item"); err != nil {
		return nil, err
	}
	if err := effect.Validate(); err != nil {
		return nil, err
	}
	b.beginPlayerAction()
	b.emit(Event{Type: EventItemUsed, ActorID: b.player.ID, ItemID: effect.ItemID})
	switch effect.Kind {
	case ItemHeal:
		b.applyHeal(b.player, b.player, effect.Amount)
	case ItemMana:
		restored := b.player.RestoreMana(effect.Amount)
		b.emit(Event{Type: EventManaRestored, ActorID: b.player.ID, TargetID: b.player.ID, Amount: restored, ItemID: effect.ItemID})
	case ItemBuff:
		if err := b.applyStatus(b.player, b.player, *effect.Status); err != nil {
			b.logger.Error("applying item status", zap.String("item", effect.ItemID), zap.Error(err))
		}
	case ItemDamage:
		for _, e := range b.enemies {
			if e.IsDead() {
				continue
			}
			b.applyDamage(b.player, e, DamageResult{
				Amount:              effect.Amount,
				Element:             element.Neutral,
				ElementalMultiplier: 1.0,
			})
		}
	}
	b.finishPlayerAction()
	return b.result(), nil
}

// AttemptFlee tries to leave the battle. Boss battles reject the attempt
// without rolling. A failed attempt uses the player's turn.
func (b *Battle) AttemptFlee() (*Result, error) {
	if err := b.requirePlayerTurn("flee"); err != nil {
		return nil, err
	}
	if b.boss {
		return nil, ErrBossFleeForbidden
	}
	b.beginPlayerAction()
	chance := FleeChance(b.player.Effective(condition.StatSpeed), len(b.LivingEnemies()))
	if dice.Roll(b.src, chance) {
		b.outcome.Fled = true
		b.transition(StateFled)
		b.finalize()
		return b.result(), nil
	}
	b.emit(Event{Type: EventFleeFailed, ActorID: b.player.ID})
	b.finishPlayerAction()
	return b.result(), nil
}

// Abort force-ends the battle from any non-terminal state, as when the player
// quits. The battle ends in Defeat with Outcome.Aborted set.
func (b *Battle) Abort() (*Result, error) {
	if b.state.Terminal() || b.busy {
		return nil, fmt.Errorf("abort in state %s: %w", b.state, ErrActionNotAllowed)
	}
	b.events = nil
	b.outcome.Aborted = true
	b.transition(StateDefeat)
	b.finalize()
	return b.result(), nil
}

// NextEnemyAction resolves the next queued enemy's turn. The presentation
// layer calls it repeatedly while State is EnemyTurn, pacing animation between
// calls. When the queue empties, the player's turn begins.
func (b *Battle) NextEnemyAction() (*Result, error) {
	if b.state != StateEnemyTurn || b.busy {
		return nil, fmt.Errorf("enemy action in state %s: %w", b.state, ErrActionNotAllowed)
	}
	b.events = nil
	b.busy = true
	defer func() { b.busy = false }()
	b.stepEnemyTurn()
	return b.result(), nil
}

// RunEnemyTurn resolves every queued enemy action back to back.
func (b *Battle) RunEnemyTurn() (*Result, error) {
	if b.state != StateEnemyTurn || b.busy {
		return nil, fmt.Errorf("enemy turn in state %s: %w", b.state, ErrActionNotAllowed)
	}
	b.events = nil
	b.busy = true
	defer func() { b.busy = false }()
	for b.state == StateEnemyTurn {
		b.stepEnemyTurn()
	}
	return b.result(), nil
}

func (b *Battle) requirePlayerTurn(cmd string) error {
	if b.state != StatePlayerTurn || b.busy {
		b.logger.Debug("command rejected", zap.String("command", cmd), zap.Stringer("state", b.state))
		return fmt.Errorf("%s in state %s: %w", cmd, b.state, ErrActionNotAllowed)
	}
	return nil
}

func (b *Battle) liveTarget() (*Combatant, error) {
	if b.target == nil {
		return nil, ErrNoValidTarget
	}
	if b.target.IsDead() {
		return nil, ErrInvalidTarget
	}
	return b.target, nil
}

func (b *Battle) beginPlayerAction() {
	b.events = nil
	b.busy = true
	b.transition(StateResolvingPlayerAction)
}

func (b *Battle) finishPlayerAction() {
	defer func() { b.busy = false }()
	if b.state.Terminal() {
		return
	}
	if len(b.LivingEnemies()) == 0 {
		b.victory()
		return
	}
	b.enterEnemyTurn()
}

// enterEnemyTurn snapshots the living enemies into the action queue.
func (b *Battle) enterEnemyTurn() {
	b.queue = b.LivingEnemies()
	if len(b.queue) == 0 {
		b.victory()
		return
	}
	b.transition(StateEnemyTurn)
}

// stepEnemyTurn resolves one queued enemy, skipping any that died since the
// queue snapshot was taken.
func (b *Battle) stepEnemyTurn() {
	var enemy *Combatant
	for len(b.queue) > 0 && enemy == nil {
		next := b.queue[0]
		b.queue = b.queue[1:]
		if next.IsAlive() {
			enemy = next
		}
	}
	if enemy == nil {
		b.endEnemyTurn()
		return
	}

	b.transition(StateResolvingEnemyAction)
	b.tick(enemy)
	if enemy.IsDead() {
		if len(b.LivingEnemies()) == 0 {
			b.victory()
			return
		}
		b.afterEnemyAction()
		return
	}

	b.resolveEnemyAction(enemy)
	if b.player.Health == 0 {
		b.defeat()
		return
	}
	b.afterEnemyAction()
}

func (b *Battle) afterEnemyAction() {
	if len(b.queue) == 0 {
		b.endEnemyTurn()
		return
	}
	b.transition(StateEnemyTurn)
}

func (b *Battle) endEnemyTurn() {
	for _, e := range b.enemies {
		if e.IsAlive() {
			e.decrementCooldowns()
		}
	}
	if len(b.LivingEnemies()) == 0 {
		b.victory()
		return
	}
	b.startPlayerTurn()
}

func (b *Battle) resolveEnemyAction(enemy *Combatant) {
	action := b.selector.ChooseAction(enemy)
	if action.Kind == ActionUseSkill && action.Skill != nil && action.Skill.Ready() {
		ks := action.Skill
		ks.CurrentCooldown = ks.Cooldown
		b.emit(Event{Type: EventSkillUsed, ActorID: enemy.ID, SkillID: ks.ID})
		_, err := b.resolver.Resolve(ks.Skill, enemy, []*Combatant{b.player}, b.player, battleApplier{b})
		if err == nil {
			return
		}
		b.logger.Warn("enemy skill failed, falling back to basic attack",
			zap.String("enemy", enemy.ID), zap.String("skill", ks.ID), zap.Error(err))
	}
	b.emit(Event{Type: EventAttack, ActorID: enemy.ID, TargetID: b.player.ID})
	dr := b.calc.Compute(enemy, b.player, BasicHit(b.critChance))
	b.applyDamage(enemy, b.player, dr)
}

// startPlayerTurn ticks the player's statuses, decrements the player's
// cooldowns and enters PlayerTurn.
func (b *Battle) startPlayerTurn() {
	b.outcome.TurnCount++
	b.tick(b.player)
	b.player.decrementCooldowns()
	b.transition(StatePlayerTurn)
}

func (b *Battle) tick(c *Combatant) {
	for _, o := range TickStatuses(c) {
		e := o.Effect
		if o.HealthDelta != 0 {
			b.emit(Event{Type: EventStatusTick, TargetID: c.ID, Status: &e, Amount: o.HealthDelta})
		}
		if o.Expired {
			b.emit(Event{Type: EventStatusExpired, TargetID: c.ID, Status: &e})
		}
	}
	b.checkDeath(nil, c)
}

func (b *Battle) victory() {
	b.outcome.Victory = true
	b.transition(StateVictory)
	b.finalize()
}

func (b *Battle) defeat() {
	b.transition(StateDefeat)
	b.finalize()
}

// finalize applies end-of-battle bonuses exactly once.
func (b *Battle) finalize() {
	if b.finalized {
		return
	}
	b.finalized = true
	if b.outcome.Victory && b.rewards != nil {
		bonus := b.rewards.VictoryBonus(b.outcome, b.enemies)
		b.outcome.Rewards.Add(bonus)
		b.emit(Event{Type: EventReward, ActorID: b.player.ID, Rewards: &bonus})
	}
	b.logger.Info("battle ended",
		zap.Stringer("state", b.state),
		zap.Int("turns", b.outcome.TurnCount),
		zap.Int("enemies_defeated", b.outcome.EnemiesDefeated),
		zap.Int("experience", b.outcome.Rewards.Experience),
		zap.Int("gold", b.outcome.Rewards.Gold),
	)
}

func (b *Battle) transition(to State) {
	from := b.state
	b.state = to
	b.logger.Debug("battle state", zap.Stringer("from", from), zap.Stringer("to", to))
	b.emit(Event{Type: EventStateChanged, From: from, To: to})
}

func (b *Battle) emit(ev Event) {
	b.events = append(b.events, ev)
	if b.observer != nil {
		b.observer(ev)
	}
}

func (b *Battle) result() *Result {
	r := &Result{
		State:   b.state,
		Events:  b.events,
		Player:  b.player.Snapshot(),
		Enemies: make([]Snapshot, len(b.enemies)),
	}
	for i, e := range b.enemies {
		r.Enemies[i] = e.Snapshot()
	}
	if b.state.Terminal() {
		o := b.outcome
		o.Rewards.Items = append([]ItemRef(nil), b.outcome.Rewards.Items...)
		r.Outcome = &o
	}
	return r
}

func (b *Battle) applyDamage(source, target *Combatant, dr DamageResult) {
	dealt := target.TakeDamage(dr.Amount)
	if source == b.player {
		b.outcome.TotalDamageDealt += dealt
		if dr.IsCritical {
			b.outcome.CriticalHits++
		}
	}
	d := dr
	b.emit(Event{Type: EventDamage, ActorID: source.ID, TargetID: target.ID, Damage: &d, Amount: dealt})
	b.checkDeath(source, target)
}

func (b *Battle) applyHeal(source, target *Combatant, amount int) HealResult {
	restored := target.RestoreHealth(amount)
	b.emit(Event{Type: EventHeal, ActorID: source.ID, TargetID: target.ID, Amount: restored})
	return HealResult{Amount: restored}
}

func (b *Battle) applyStatus(source, target *Combatant, e condition.Effect) error {
	refreshed, err := ApplyStatus(target, e)
	if err != nil {
		return err
	}
	b.emit(Event{Type: EventStatusApplied, ActorID: source.ID, TargetID: target.ID, Status: &e, Refreshed: refreshed})
	return nil
}

// checkDeath marks target dead the first time its health reaches 0 and, for
// enemies, books the kill and its reward.
func (b *Battle) checkDeath(source, target *Combatant) {
	if target.Health > 0 || !target.markDead() {
		return
	}
	actor := ""
	if source != nil {
		actor = source.ID
	}
	b.emit(Event{Type: EventDeath, ActorID: actor, TargetID: target.ID})
	if target.PlayerControlled {
		b.logger.Info("player died", zap.String("player", target.ID))
		return
	}
	b.outcome.EnemiesDefeated++
	b.logger.Info("enemy defeated", zap.String("enemy", target.ID), zap.Stringer("tier", target.Tier))
	if b.rewards == nil {
		return
	}
	r := b.rewards.KillReward(target)
	b.outcome.Rewards.Add(r)
	b.emit(Event{Type: EventReward, ActorID: b.player.ID, TargetID: target.ID, Rewards: &r})
}

// battleApplier exposes the battle's bookkeeping to the Resolver.
type battleApplier struct{ b *Battle }

func (a battleApplier) ApplyDamage(source, target *Combatant, r DamageResult) {
	a.b.applyDamage(source, target, r)
}

func (a battleApplier) ApplyHeal(source, target *Combatant, amount int) HealResult {
	return a.b.applyHeal(source, target, amount)
}

func (a battleApplier) ApplyStatus(source, target *Combatant, e condition.Effect) error {
	return a.b.applyStatus(source, target, e)
}

var _ Applier = battleApplier{}
