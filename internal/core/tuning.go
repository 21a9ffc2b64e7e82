package core

// TuningParams are the physics constants shared by the server and the
// client-side predictor. Speeds are in units per tick.
type TuningParams struct {
	GroundControlSpeed float64
	GroundControlAccel float64
	GroundFriction     float64
	GroundJumpImpulse  float64
	AirJumpImpulse     float64
	AirControlSpeed    float64
	AirControlAccel    float64
	AirFriction        float64
	HookLength         float64
	HookFireSpeed      float64
	HookDragAccel      float64
	HookDragSpeed      float64
	Gravity            float64

	VelrampStart     float64
	VelrampRange     float64
	VelrampCurvature float64

	PlayerCollision bool
	PlayerHooking   bool
}

// DefaultTuning returns the stock tuning at 50 ticks per second.
func DefaultTuning() TuningParams {
	const ticks = 50.0
	return TuningParams{
		GroundControlSpeed: 10.0,
		GroundControlAccel: 100.0 / ticks,
		GroundFriction:     0.5,
		GroundJumpImpulse:  13.2,
		AirJumpImpulse:     12.0,
		AirControlSpeed:    250.0 / ticks,
		AirControlAccel:    1.5,
		AirFriction:        0.95,
		HookLength:         380.0,
		HookFireSpeed:      80.0,
		HookDragAccel:      3.0,
		HookDragSpeed:      15.0,
		Gravity:            0.5,
		VelrampStart:       550,
		VelrampRange:       2000,
		VelrampCurvature:   1.4,
		PlayerCollision:    true,
		PlayerHooking:      true,
	}
}

// immobilize removes every movement control from t. Frozen and sitting
// characters use it.
func (t *TuningParams) immobilize() {
	t.GroundControlAccel = 0
	t.AirControlAccel = 0
	t.GroundJumpImpulse = 0
	t.AirJumpImpulse = 0
	t.HookLength = 0.1
	t.HookFireSpeed = 0.1
}

// Values lists the parameters in the order clients expect them on the wire.
func (t *TuningParams) Values() []float64 {
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	return []float64{
		t.GroundControlSpeed, t.GroundControlAccel, t.GroundFriction, t.GroundJumpImpulse,
		t.AirJumpImpulse, t.AirControlSpeed, t.AirControlAccel, t.AirFriction,
		t.HookLength, t.HookFireSpeed, t.HookDragAccel, t.HookDragSpeed, t.Gravity,
		t.VelrampStart, t.VelrampRange, t.VelrampCurvature,
		b(t.PlayerCollision), b(t.PlayerHooking),
	}
}
