package rules

import "time"

// EffectKind names a timed effect.
type EffectKind int

const (
	VisionReveal EffectKind = iota // mushroom: clues and portals
	ThirdEye                       // third eye: portals; they vanish when it lapses
	Speed                          // magic tile: doubles steps
	Jump                           // trampoline: doubles special moves
	Light                          // firefly: wider sight in the dark
	MonsterSlow                    // lever: monsters move at half cadence
	WebSlow                        // web: every other move is lost
	numEffects
)

var effectNames = [numEffects]string{
	VisionReveal: "vision",
	ThirdEye:     "third-eye",
	Speed:        "speed",
	Jump:         "jump",
	Light:        "light",
	MonsterSlow:  "monster-slow",
	WebSlow:      "web-slow",
}

// String returns a short effect name.
func (k EffectKind) String() string {
	if k < 0 || k >= numEffects {
		return "unknown"
	}
	return effectNames[k]
}

// EffectKinds lists every effect in display order.
var EffectKinds = []EffectKind{VisionReveal, ThirdEye, Speed, Jump, Light, MonsterSlow, WebSlow}

// Effects is the bag of independent countdown timers for one play session.
// An effect is active while it has time left.
type Effects struct {
	left  [numEffects]time.Duration
	total [numEffects]time.Duration
}

// NewEffects returns a bag with every effect inactive.
func NewEffects() *Effects {
	return &Effects{}
}

// Grant (re)starts an effect with the given duration.
func (e *Effects) Grant(k EffectKind, d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.left[k] = d
	e.total[k] = d
}

// Active reports whether the effect has time left.
func (e *Effects) Active(k EffectKind) bool {
	return e.left[k] > 0
}

// Left returns the remaining time of an effect.
func (e *Effects) Left(k EffectKind) time.Duration {
	return e.left[k]
}

// Total returns the duration the effect was last granted for.
func (e *Effects) Total(k EffectKind) time.Duration {
	return e.total[k]
}

// Tick counts every active effect down by dt and returns the ones that ran out.
func (e *Effects) Tick(dt time.Duration) []EffectKind {
	var expired []EffectKind
	for k := range numEffects {
		if e.left[k] <= 0 {
			continue
		}
		e.left[k] -= dt
		if e.left[k] <= 0 {
			e.left[k] = 0
			expired = append(expired, k)
		}
	}
	return expired
}

// Reset deactivates every effect.
func (e *Effects) Reset() {
	*e = Effects{}
}

// PortalSight reports whether portals are visible and usable by the player.
func (e *Effects) PortalSight() bool {
	return e.Active(VisionReveal) || e.Active(ThirdEye)
}

// StepCount returns how many cells one move covers. Special moves (jump or
// slide) cover two, doubled again by the jump effect; speed doubles everything.
func (e *Effects) StepCount(special bool) int {
	steps := 1
	if special {
		steps = 2
		if e.Active(Jump) {
			steps *= 2
		}
	}
	if e.Active(Speed) {
		steps *= 2
	}
	return steps
}
