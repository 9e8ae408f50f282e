// Package command provides the text command surface of a battle: the
// command registry, the line parser and dispatch onto combat.Battle.
package command

// Categories for organizing commands.
const (
	CategoryAction = "action"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to battle operations.
const (
	HandlerAttack    = "attack"
	HandlerSkill     = "skill"
	HandlerItem      = "item"
	HandlerDefend    = "defend"
	HandlerFlee      = "flee"
	HandlerTarget    = "target"
	HandlerStatus    = "status"
	HandlerSkills    = "skills"
	HandlerInventory = "inventory"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "skill <id>".
	Usage string
	// Help is the short help text displayed to players.
	Help     string
	Category string
	Handler  string
	// Args is the exact number of arguments required.
	Args int
}

// BuiltinCommands returns all built-in battle commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "attack", Aliases: []string{"a", "hit"}, Usage: "attack", Help: "Basic attack against the current target", Category: CategoryAction, Handler: HandlerAttack},
		{Name: "skill", Aliases: []string{"s", "cast"}, Usage: "skill <id>", Help: "Use a known skill", Category: CategoryAction, Handler: HandlerSkill, Args: 1},
		{Name: "item", Aliases: []string{"i", "use"}, Usage: "item <id>", Help: "Use a consumable from the backpack", Category: CategoryAction, Handler: HandlerItem, Args: 1},
		{Name: "defend", Aliases: []string{"d", "guard"}, Usage: "defend", Help: "Double your defense until your next turn", Category: CategoryAction, Handler: HandlerDefend},
		{Name: "flee", Aliases: []string{"f", "run"}, Usage: "flee", Help: "Attempt to escape (not in boss battles)", Category: CategoryAction, Handler: HandlerFlee},
		{Name: "target", Aliases: []string{"t"}, Usage: "target <enemy>", Help: "Select the enemy your attacks aim at", Category: CategoryAction, Handler: HandlerTarget, Args: 1},

		{Name: "status", Aliases: []string{"st", "look"}, Usage: "status", Help: "Show health, mana and statuses of everyone", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "skills", Aliases: []string{"sk"}, Usage: "skills", Help: "List your skills with cost and cooldown", Category: CategoryInfo, Handler: HandlerSkills},
		{Name: "inventory", Aliases: []string{"inv"}, Usage: "inventory", Help: "List usable items", Category: CategoryInfo, Handler: HandlerInventory},

		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Abandon the battle (counts as a defeat)", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsAction reports whether the handler issues a battle command.
func IsAction(handler string) bool {
	switch handler {
	case HandlerAttack, HandlerSkill, HandlerItem, HandlerDefend, HandlerFlee, HandlerTarget, HandlerQuit:
		return true
	default:
		return false
	}
}
