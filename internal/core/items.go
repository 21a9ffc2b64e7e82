package core

import "lastday/internal/inventory"

// Inventory is the view of the item service the simulation needs.
// Implementations may change between ticks; characters resync every tick.
type Inventory interface {
	Entries(clientID int) []inventory.Entry
	Item(name string) (inventory.Item, bool)
	HasAmmo(weapon int) bool
	Add(clientID int, name string, delta int)
	Clear(clientID int)
}

type noItems struct{}

func (noItems) Entries(int) []inventory.Entry { return nil }
func (noItems) Item(string) (inventory.Item, bool) { return inventory.Item{}, false }
func (noItems) HasAmmo(int) bool { return false }
func (noItems) Add(int, string, int) {}
func (noItems) Clear(int) {}

// DefaultItems is the stock item table.
func DefaultItems() []inventory.Item {
	return []inventory.Item{
		{Name: "hammer", WeaponID: WeaponHammer, AmmoFor: -1},
		{Name: "gun", WeaponID: WeaponGun, AmmoFor: -1},
		{Name: "shotgun", WeaponID: WeaponShotgun, AmmoFor: -1},
		{Name: "grenade launcher", WeaponID: WeaponGrenade, AmmoFor: -1},
		{Name: "rifle", WeaponID: WeaponRifle, AmmoFor: -1},
		{Name: "freeze rifle", WeaponID: WeaponFreezeRifle, AmmoFor: -1},
		{Name: "bullet", WeaponID: -1, AmmoFor: WeaponGun},
		{Name: "shell", WeaponID: -1, AmmoFor: WeaponShotgun},
		{Name: "grenade", WeaponID: -1, AmmoFor: WeaponGrenade},
		{Name: "cell", WeaponID: -1, AmmoFor: WeaponRifle},
		{Name: "freeze cell", WeaponID: -1, AmmoFor: WeaponFreezeRifle},
		{Name: "heart", WeaponID: -1, AmmoFor: -1, Health: 1},
		{Name: "log", WeaponID: -1, AmmoFor: -1},
		{Name: "copper", WeaponID: -1, AmmoFor: -1},
	}
}
