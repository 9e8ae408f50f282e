package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
)

var (
	// ErrUnknownCommand is returned for input that resolves to no command.
	ErrUnknownCommand = errors.New("command: unknown command")
	// ErrUsage is returned when a command gets the wrong number of arguments.
	ErrUsage = errors.New("command: usage")
	// ErrNoBackpack is returned by item commands in a session without a backpack.
	ErrNoBackpack = errors.New("command: no backpack")
)

// Reply is the outcome of one executed line.
type Reply struct {
	// Result is set when the line issued a battle command.
	Result *combat.Result
	// Text is set for informational commands.
	Text string
	// Quit is set when the player abandoned the battle.
	Quit bool
}

// Session binds the command registry to one battle and the player's backpack.
// A Session is as concurrency-safe as the battle it drives, which is not.
type Session struct {
	reg    *Registry
	battle *combat.Battle
	pack   *inventory.Backpack
}

// NewSession creates a Session. pack may be nil, in which case item commands fail.
//
// Precondition: reg and battle must be non-nil.
func NewSession(reg *Registry, battle *combat.Battle, pack *inventory.Backpack) *Session {
	if reg == nil || battle == nil {
		panic("command.NewSession: registry and battle must not be nil")
	}
	return &Session{reg: reg, battle: battle, pack: pack}
}

// Execute parses and runs one input line.
//
// Postcondition: a blank line returns an empty Reply and no error. Battle
// errors are returned wrapped with the command name; the battle is unchanged.
func (s *Session) Execute(line string) (*Reply, error) {
	parsed := Parse(line)
	if parsed.Command == "" {
		return &Reply{}, nil
	}
	cmd, ok := s.reg.Resolve(parsed.Command)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, parsed.Command)
	}
	if len(parsed.Args) != cmd.Args {
		return nil, fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
	}

	var (
		res *combat.Result
		err error
	)
	switch cmd.Handler {
	case HandlerAttack:
		res, err = s.battle.Attack()
	case HandlerSkill:
		res, err = s.battle.UseSkill(parsed.Args[0])
	case HandlerItem:
		if s.pack == nil {
			return nil, ErrNoBackpack
		}
		res, err = s.pack.Use(parsed.Args[0], s.battle.UseItem)
	case HandlerDefend:
		res, err = s.battle.Defend()
	case HandlerFlee:
		res, err = s.battle.AttemptFlee()
	case HandlerTarget:
		res, err = s.battle.SelectTarget(s.enemyID(parsed.Args[0]))
	case HandlerQuit:
		res, err = s.battle.Abort()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, err)
		}
		return &Reply{Result: res, Quit: true}, nil
	case HandlerStatus:
		return &Reply{Text: s.status()}, nil
	case HandlerSkills:
		return &Reply{Text: s.skills()}, nil
	case HandlerInventory:
		return &Reply{Text: s.inventory()}, nil
	case HandlerHelp:
		return &Reply{Text: s.reg.Help()}, nil
	default:
		return nil, fmt.Errorf("%w: no handler for %q", ErrUnknownCommand, cmd.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return &Reply{Result: res}, nil
}

// enemyID accepts either an enemy id or its 1-based position in the lineup.
func (s *Session) enemyID(arg string) string {
	n, err := strconv.Atoi(arg)
	enemies := s.battle.Enemies()
	if err != nil || n < 1 || n > len(enemies) {
		return arg
	}
	return enemies[n-1].ID
}

func (s *Session) status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state: %s\n", s.battle.State())
	writeCombatant(&b, "  ", s.battle.Player())
	target := s.battle.Target()
	for i, e := range s.battle.Enemies() {
		mark := " "
		if e == target {
			mark = "*"
		}
		writeCombatant(&b, fmt.Sprintf("%s%d", mark, i+1), e)
	}
	return b.String()
}

func writeCombatant(b *strings.Builder, prefix string, c *combat.Combatant) {
	fmt.Fprintf(b, "%s %-14s HP %d/%d  MP %d/%d", prefix, c.Name, c.Health, c.MaxHealth, c.Mana, c.MaxMana)
	if c.IsDead() {
		b.WriteString("  (dead)")
	}
	if c.Statuses != nil {
		for _, e := range c.Statuses.All() {
			fmt.Fprintf(b, "  [%s %d]", e.Name, e.Duration)
		}
	}
	b.WriteString("\n")
}

func (s *Session) skills() string {
	p := s.battle.Player()
	if len(p.Skills) == 0 {
		return "no skills\n"
	}
	var b strings.Builder
	for _, k := range p.Skills {
		ready := "ready"
		if !k.Ready() {
			ready = fmt.Sprintf("%d turns", k.CurrentCooldown)
		}
		ult := ""
		if k.Ultimate {
			ult = " (ultimate)"
		}
		fmt.Fprintf(&b, "  %-16s %3d mp  cd %d  %s%s\n", k.ID, k.ManaCost, k.Cooldown, ready, ult)
	}
	return b.String()
}

func (s *Session) inventory() string {
	if s.pack == nil {
		return "no backpack\n"
	}
	ids := s.pack.Usable()
	if len(ids) == 0 {
		return "nothing usable\n"
	}
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "  %-16s x%d\n", id, s.pack.Count(id))
	}
	return b.String()
}
