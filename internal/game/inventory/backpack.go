package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rogue/internal/game/combat"
)

var (
	// ErrNotUsable is returned for unknown items and items that cannot be used in battle.
	ErrNotUsable = errors.New("inventory: item not usable")
	// ErrOutOfStock is returned when the backpack holds none of the item.
	ErrOutOfStock = errors.New("inventory: item out of stock")
)

// ItemInstance is one stack of an item in a backpack.
type ItemInstance struct {
	InstanceID string
	ItemDefID  string
	Quantity   int
}

// Backpack is the player's item stock. Identical items stack up to their
// max_stack; overflow opens a new stack. All methods are safe for concurrent use.
type Backpack struct {
	mu    sync.Mutex
	reg   *Registry
	items []ItemInstance
}

// NewBackpack creates an empty Backpack over reg.
//
// Precondition: reg must be non-nil.
func NewBackpack(reg *Registry) *Backpack {
	if reg == nil {
		panic("inventory.NewBackpack: reg must not be nil")
	}
	return &Backpack{reg: reg}
}

// Fill adds every (item id, count) pair, in sorted id order. It is atomic:
// if any id is unknown or any count is negative, nothing is added.
func (b *Backpack) Fill(stock map[string]int) error {
	ids := make([]string, 0, len(stock))
	for id, n := range stock {
		if _, ok := b.reg.Item(id); !ok {
			return fmt.Errorf("backpack: unknown item %q", id)
		}
		if n < 0 {
			return fmt.Errorf("backpack: count for %q must be >= 0", id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if stock[id] == 0 {
			continue
		}
		if _, err := b.Add(id, stock[id]); err != nil {
			return err
		}
	}
	return nil
}

// Add places quantity units of the item into the backpack, filling existing
// stacks first.
//
// Precondition: quantity > 0, itemDefID is registered.
// Postcondition: Count(itemDefID) grows by quantity; returns the last stack touched.
func (b *Backpack) Add(itemDefID string, quantity int) (*ItemInstance, error) {
	def, ok := b.reg.Item(itemDefID)
	if !ok {
		return nil, fmt.Errorf("backpack: unknown item %q", itemDefID)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("backpack: quantity must be > 0")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	limit := def.maxStack()
	remaining := quantity
	last := -1
	for i := range b.items {
		if remaining == 0 {
			break
		}
		if b.items[i].ItemDefID != def.ID || b.items[i].Quantity >= limit {
			continue
		}
		take := min(limit-b.items[i].Quantity, remaining)
		b.items[i].Quantity += take
		remaining -= take
		last = i
	}
	for remaining > 0 {
		q := min(remaining, limit)
		b.items = append(b.items, ItemInstance{
			InstanceID: uuid.NewString(),
			ItemDefID:  def.ID,
			Quantity:   q,
		})
		remaining -= q
		last = len(b.items) - 1
	}
	inst := b.items[last]
	return &inst, nil
}

// AddDrops stores battle drops, keeping each drop's instance id. Unknown
// item ids are skipped and reported in the returned slice.
func (b *Backpack) AddDrops(drops []combat.ItemRef) (skipped []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range drops {
		if _, ok := b.reg.Item(d.ItemID); !ok {
			skipped = append(skipped, d.ItemID)
			continue
		}
		id := d.InstanceID
		if id == "" {
			id = uuid.NewString()
		}
		b.items = append(b.items, ItemInstance{InstanceID: id, ItemDefID: d.ItemID, Quantity: 1})
	}
	return skipped
}

// Count returns the total quantity held of the item.
func (b *Backpack) Count(itemDefID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, inst := range b.items {
		if inst.ItemDefID == itemDefID {
			n += inst.Quantity
		}
	}
	return n
}

// Usable returns the ids of held items that can be used in battle, sorted.
func (b *Backpack) Usable() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, inst := range b.items {
		if seen[inst.ItemDefID] {
			continue
		}
		seen[inst.ItemDefID] = true
		if def, ok := b.reg.Item(inst.ItemDefID); ok && def.Usable() {
			out = append(out, inst.ItemDefID)
		}
	}
	sort.Strings(out)
	return out
}

// Use resolves the item into its battle effect and hands it to apply,
// typically (*combat.Battle).UseItem. One unit is removed only when apply
// succeeds, taking from the last stack of that item.
//
// Postcondition: on success Count(id) decreased by one; on any error the
// backpack is unchanged.
func (b *Backpack) Use(id string, apply func(combat.ItemEffect) (*combat.Result, error)) (*combat.Result, error) {
	eff, err := b.reg.Effect(id)
	if err != nil {
		return nil, err
	}
	if b.Count(id) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrOutOfStock, id)
	}
	res, err := apply(eff)
	if err != nil {
		return nil, err
	}
	if !b.removeOne(id) {
		return nil, fmt.Errorf("%w: %q", ErrOutOfStock, id)
	}
	return res, nil
}

func (b *Backpack) removeOne(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.items) - 1; i >= 0; i-- {
		if b.items[i].ItemDefID != id {
			continue
		}
		b.items[i].Quantity--
		if b.items[i].Quantity == 0 {
			b.items = append(b.items[:i], b.items[i+1:]...)
		}
		return true
	}
	return false
}

// Items returns a snapshot copy of all stacks.
//
// Postcondition: returned slice is a copy; mutations do not affect the backpack.
func (b *Backpack) Items() []ItemInstance {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ItemInstance, len(b.items))
	copy(out, b.items)
	return out
}
