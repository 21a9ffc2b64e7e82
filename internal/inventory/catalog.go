package inventory

import "sort"

// Item describes what owning one unit of a named item does.
type Item struct {
	Name string
	// WeaponID is the weapon this item unlocks, -1 otherwise.
	WeaponID int
	// AmmoFor is the weapon this item is ammunition for, -1 otherwise.
	AmmoFor int
	// Health is added to the owner's max health per unit held.
	Health int
}

// Entry is one stack of items in a client's inventory.
type Entry struct {
	Name string
	Num  int
}

// Catalog is the read-only table of known items.
type Catalog struct {
	items map[string]Item
	ammo  map[int]bool
}

func NewCatalog(items ...Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items)), ammo: make(map[int]bool)}
	for _, it := range items {
		c.items[it.Name] = it
		if it.AmmoFor >= 0 {
			c.ammo[it.AmmoFor] = true
		}
	}
	return c
}

func (c *Catalog) Lookup(name string) (Item, bool) {
	it, ok := c.items[name]
	return it, ok
}

// HasAmmo reports whether any item is ammunition for weapon. Weapons
// without ammo items never run dry.
func (c *Catalog) HasAmmo(weapon int) bool { return c.ammo[weapon] }

// Names returns every item name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.items))
	for n := range c.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
