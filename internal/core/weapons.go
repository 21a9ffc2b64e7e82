package core

import "math"

// Weapon kinds.
const (
	WeaponHammer = iota
	WeaponGun
	WeaponShotgun
	WeaponGrenade
	WeaponRifle
	WeaponNinja
	WeaponFreezeRifle
	NumWeapons
)

// Pseudo weapons used as damage sources and in kill messages.
const (
	WeaponGame  = -3
	WeaponSelf  = -2
	WeaponWorld = -1
)

// Weapon is the behaviour behind a weapon kind. ShowType is the kind the
// client renders.
type Weapon interface {
	Fire(w *World, owner int, dir, pos Vec2)
	FireDelay() int
	Damage() int
	ShowType() int
}

// WeaponRegistry maps weapon kinds to their behaviour.
type WeaponRegistry struct {
	weapons [NumWeapons]Weapon
}

func NewWeaponRegistry() *WeaponRegistry { return &WeaponRegistry{} }

// DefaultWeapons returns a registry with the stock arsenal installed.
func DefaultWeapons() *WeaponRegistry {
	r := NewWeaponRegistry()
	r.Register(WeaponHammer, Hammer{})
	r.Register(WeaponGun, Gun{})
	r.Register(WeaponShotgun, Shotgun{})
	r.Register(WeaponGrenade, Grenade{})
	r.Register(WeaponRifle, Rifle{})
	r.Register(WeaponNinja, Ninja{})
	r.Register(WeaponFreezeRifle, FreezeRifle{})
	return r
}

func (r *WeaponRegistry) Register(kind int, wp Weapon) {
	if kind < 0 || kind >= NumWeapons {
		return
	}
	r.weapons[kind] = wp
}

// Get returns nil for unknown or unregistered kinds.
func (r *WeaponRegistry) Get(kind int) Weapon {
	if r == nil || kind < 0 || kind >= NumWeapons {
		return nil
	}
	return r.weapons[kind]
}

func (r *WeaponRegistry) showType(kind int) int {
	if wp := r.Get(kind); wp != nil {
		return wp.ShowType()
	}
	return kind
}

type Hammer struct{}

func (Hammer) FireDelay() int { return 125 }
func (Hammer) Damage() int { return 3 }
func (Hammer) ShowType() int { return WeaponHammer }

func (h Hammer) Fire(w *World, owner int, dir, pos Vec2) {
	self := w.CharacterByID(owner)
	w.createSound(pos, SoundHammerFire, MaskAll())
	for _, target := range w.FindCharacters(pos, PhysSize*0.5) {
		if target == self {
			continue
		}
		if hit, _, _ := w.Col.IntersectLine(pos, target.pos); hit != 0 {
			continue
		}
		if d := target.pos.Sub(pos); d.Length() > 0 {
			w.createHammerHit(target.pos.Sub(d.Normalize().Scale(PhysSize * 0.5)))
		} else {
			w.createHammerHit(pos)
		}

		hitDir := V(0, -1)
		if self != nil && target.pos.Distance(self.pos) > 0 {
			hitDir = target.pos.Sub(self.pos).Normalize()
		}
		force := V(0, -1).Add(hitDir.Add(V(0, -1.1)).Normalize().Scale(10))
		target.TakeDamage(force, h.Damage(), owner, WeaponHammer)
	}
}

type Gun struct{}

func (Gun) FireDelay() int { return 125 }
func (Gun) Damage() int { return 1 }
func (Gun) ShowType() int { return WeaponGun }

func (g Gun) Fire(w *World, owner int, dir, pos Vec2) {
	w.addProjectile(&Projectile{
		Kind:      WeaponGun,
		Owner:     owner,
		Pos:       pos,
		Dir:       dir,
		Speed:     2200,
		Curvature: 1.25,
		LifeSpan:  w.TickSpeed * 2,
		Damage:    g.Damage(),
		Force:     0,
		Sound:     -1,
	})
	w.createSound(pos, SoundGunFire, MaskAll())
}

type Shotgun struct{}

func (Shotgun) FireDelay() int { return 500 }
func (Shotgun) Damage() int { return 1 }
func (Shotgun) ShowType() int { return WeaponShotgun }

var shotgunSpreading = [5]float64{-0.185, -0.070, 0, 0.070, 0.185}

func (s Shotgun) Fire(w *World, owner int, dir, pos Vec2) {
	const spread = 2
	for i := -spread; i <= spread; i++ {
		a := angleOf(dir) + shotgunSpreading[i+2]
		v := 1 - float64(absInt(i))/spread
		speed := mixf(0.8, 1.0, v)
		w.addProjectile(&Projectile{
			Kind:      WeaponShotgun,
			Owner:     owner,
			Pos:       pos,
			Dir:       direction(a).Scale(speed),
			Speed:     2750,
			Curvature: 1.25,
			LifeSpan:  int(float64(w.TickSpeed) * 0.2),
			Damage:    s.Damage(),
			Force:     0,
			Sound:     -1,
		})
	}
	w.createSound(pos, SoundShotgunFire, MaskAll())
}

type Grenade struct{}

func (Grenade) FireDelay() int { return 500 }
func (Grenade) Damage() int { return 6 }
func (Grenade) ShowType() int { return WeaponGrenade }

func (g Grenade) Fire(w *World, owner int, dir, pos Vec2) {
	w.addProjectile(&Projectile{
		Kind:      WeaponGrenade,
		Owner:     owner,
		Pos:       pos,
		Dir:       dir,
		Speed:     1000,
		Curvature: 7,
		LifeSpan:  w.TickSpeed * 2,
		Damage:    g.Damage(),
		Explosive: true,
		Sound:     SoundGrenadeExplode,
	})
	w.createSound(pos, SoundGrenadeFire, MaskAll())
}

type Rifle struct{}

func (Rifle) FireDelay() int { return 800 }
func (Rifle) Damage() int { return 5 }
func (Rifle) ShowType() int { return WeaponRifle }

func (r Rifle) Fire(w *World, owner int, dir, pos Vec2) {
	w.addLaser(newLaser(w, pos, dir, owner, WeaponRifle, r.Damage(), 0))
	w.createSound(pos, SoundRifleFire, MaskAll())
}

// FreezeRifle is a rifle whose beam freezes instead of hurting.
type FreezeRifle struct{}

func (FreezeRifle) FireDelay() int { return 800 }
func (FreezeRifle) Damage() int { return 0 }
func (FreezeRifle) ShowType() int { return WeaponRifle }

func (FreezeRifle) Fire(w *World, owner int, dir, pos Vec2) {
	w.addLaser(newLaser(w, pos, dir, owner, WeaponFreezeRifle, 0, 3))
	w.createSound(pos, SoundRifleFire, MaskAll())
}

const (
	ninjaVelocity = 50.0
	ninjaMoveTime = 200
)

type Ninja struct{}

func (Ninja) FireDelay() int { return 800 }
func (Ninja) Damage() int { return 9 }
func (Ninja) ShowType() int { return WeaponNinja }

// Fire starts a dash; the movement itself happens in the owner's weapon
// handling on the following ticks.
func (Ninja) Fire(w *World, owner int, dir, pos Vec2) {
	c := w.CharacterByID(owner)
	if c == nil {
		return
	}
	c.ninja.activationDir = dir
	c.ninja.currentMoveTime = ninjaMoveTime * w.TickSpeed / 1000
	c.ninja.oldVelAmount = c.core.Vel.Length()
	w.createSound(pos, SoundNinjaFire, MaskAll())
}

// Projectile is a bullet or grenade travelling on a parabola.
type Projectile struct {
	Kind      int
	Owner     int
	Pos       Vec2
	Dir       Vec2
	Speed     float64
	Curvature float64
	LifeSpan  int
	Damage    int
	Force     float64
	Explosive bool
	Sound     int

	startTick int
	removed   bool
}

func (p *Projectile) posAt(t float64) Vec2 {
	return V(
		p.Pos.X+p.Dir.X*p.Speed*t,
		p.Pos.Y+p.Dir.Y*p.Speed*t+p.Curvature/10000*(p.Speed*t)*(p.Speed*t),
	)
}

func (p *Projectile) tick(w *World) {
	pt := float64(w.CurrentTick-p.startTick-1) / float64(w.TickSpeed)
	ct := float64(w.CurrentTick-p.startTick) / float64(w.TickSpeed)
	prevPos := p.posAt(pt)
	curPos := p.posAt(ct)

	collide, at, _ := w.Col.IntersectLine(prevPos, curPos)
	if collide != 0 {
		curPos = at
	}
	target, hitPos := w.IntersectCharacter(prevPos, curPos, 6, w.CharacterByID(p.Owner))

	p.LifeSpan--
	if target == nil && collide == 0 && p.LifeSpan >= 0 && !layerClipped(w.Col, curPos) {
		return
	}

	if p.LifeSpan >= 0 || p.Kind == WeaponGrenade {
		w.createSound(curPos, p.Sound, MaskAll())
	}
	if p.Explosive {
		if target != nil {
			curPos = hitPos
		}
		w.createExplosion(curPos, p.Owner, p.Kind, false)
	} else if target != nil {
		target.TakeDamage(p.Dir.Scale(math.Max(0.001, p.Force)), p.Damage, p.Owner, p.Kind)
	}
	p.removed = true
}

const (
	laserReach       = 800.0
	laserBounceDelay = 150
	laserBounceNum   = 1
	laserBounceCost  = 0.0
)

// Laser is a rifle beam. It travels its full reach at once and bounces off
// walls after a short delay.
type Laser struct {
	Owner  int
	Kind   int
	From   Vec2
	Pos    Vec2
	Dir    Vec2
	Damage int
	// FreezeSeconds, when positive, freezes the victim instead of damaging.
	FreezeSeconds float64

	energy   float64
	bounces  int
	evalTick int
	removed  bool
}

func newLaser(w *World, pos, dir Vec2, owner, kind, damage int, freeze float64) *Laser {
	l := &Laser{
		Owner:         owner,
		Kind:          kind,
		Pos:           pos,
		Dir:           dir,
		Damage:        damage,
		FreezeSeconds: freeze,
		energy:        laserReach,
	}
	l.doBounce(w)
	return l
}

func (l *Laser) hitCharacter(w *World, from, to Vec2) bool {
	owner := w.CharacterByID(l.Owner)
	var notThis *Character
	if l.bounces == 0 {
		notThis = owner
	}
	hit, at := w.IntersectCharacter(l.Pos, to, 0, notThis)
	if hit == nil {
		return false
	}
	l.From = from
	l.Pos = at
	l.energy = -1
	if l.FreezeSeconds > 0 {
		hit.Freeze(l.FreezeSeconds)
	} else {
		hit.TakeDamage(V(0, 0), l.Damage, l.Owner, l.Kind)
	}
	return true
}

func (l *Laser) doBounce(w *World) {
	l.evalTick = w.CurrentTick
	if l.energy < 0 {
		l.removed = true
		return
	}

	to := l.Pos.Add(l.Dir.Scale(l.energy))
	if flags, _, before := w.Col.IntersectLine(l.Pos, to); flags != 0 {
		if l.hitCharacter(w, l.Pos, before) {
			return
		}
		l.From = l.Pos
		l.Pos = before

		bounceDir := l.Dir.Scale(4)
		w.Col.MoveBox(&l.Pos, &bounceDir, V(0, 0), 1)
		l.Dir = bounceDir.Normalize()

		l.energy -= l.From.Distance(l.Pos) + laserBounceCost
		l.bounces++
		if l.bounces > laserBounceNum {
			l.energy = -1
		}
		w.createSound(l.Pos, SoundRifleBounce, MaskAll())
		return
	}
	if !l.hitCharacter(w, l.Pos, to) {
		l.From = l.Pos
		l.Pos = to
		l.energy = -1
	}
}

func (l *Laser) tick(w *World) {
	if w.CurrentTick > l.evalTick+w.TickSpeed*laserBounceDelay/1000 {
		l.doBounce(w)
	}
}
