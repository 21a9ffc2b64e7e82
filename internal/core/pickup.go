package core

// Pickup kinds as rendered by the client.
const (
	PickupHealth = iota
	PickupArmor
	PickupWeapon
	PickupNinja
)

const (
	pickupRadius   = 14.0
	pickupLifetime = 20 // seconds
	pickupSpeed    = 8.0
)

// Pickup is a dropped item stack lying in the world. The first human to
// touch it receives every item in it.
type Pickup struct {
	Kind  int
	Pos   Vec2
	Vel   Vec2
	Items []Drop

	expireTick int
	removed    bool
}

func newPickup(w *World, pos, dir Vec2, items []Drop) *Pickup {
	kind := PickupArmor
	for _, d := range items {
		if it, ok := w.Items.Item(d.Item); ok {
			switch {
			case it.WeaponID == WeaponNinja:
				kind = PickupNinja
			case it.WeaponID >= 0 && kind != PickupNinja:
				kind = PickupWeapon
			case it.Health > 0 && kind == PickupArmor:
				kind = PickupHealth
			}
		}
	}
	return &Pickup{
		Kind:       kind,
		Pos:        pos,
		Vel:        dir.Scale(pickupSpeed).Add(V(0, -pickupSpeed)),
		Items:      items,
		expireTick: w.CurrentTick + w.TickSpeed*pickupLifetime,
	}
}

func (p *Pickup) tick(w *World) {
	if w.CurrentTick >= p.expireTick || layerClipped(w.Col, p.Pos) {
		p.removed = true
		return
	}

	p.Vel.Y += w.Tuning.Gravity
	p.Vel.X *= w.Tuning.AirFriction
	w.Col.MoveBox(&p.Pos, &p.Vel, V(pickupRadius*2, pickupRadius*2), 0.5)

	for _, c := range w.FindCharacters(p.Pos, pickupRadius) {
		if c.owner().IsBot {
			continue
		}
		for _, d := range p.Items {
			w.Items.Add(c.ClientID(), d.Item, d.Num)
		}
		sound := SoundPickupArmor
		if p.Kind == PickupHealth {
			sound = SoundPickupHealth
		}
		w.createSound(p.Pos, sound, MaskAll())
		w.Log.Debug("pickup", "player", c.ClientID(), "items", len(p.Items))
		p.removed = true
		return
	}
}
