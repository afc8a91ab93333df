// Package fold runs the build-out/tear-down state machine. A single
// scalar foldProgress in [0,1] drives the shader-side expansion: each
// vertex grows out of its fold origin once foldProgress passes the
// vertex's fold delay.
package fold

import "github.com/lumenfold/lumenfold/internal/ease"

// State names the controller phases.
type State string

const (
	StateIdle       State = "idle"
	StateFoldingOut State = "folding-out"
	StateRebuilding State = "rebuilding"
	StateFoldingIn  State = "folding-in"
)

// Callbacks fire at state-machine boundaries. Nil fields are skipped.
type Callbacks struct {
	FoldOutComplete func()
	FoldInComplete  func()
}

// Controller is the single-threaded fold state machine. The host ticks it
// once per frame; transitions are strict:
// idle -> folding-out -> rebuilding -> folding-in -> idle.
type Controller struct {
	state    State
	progress float64
	elapsed  float64

	outDuration float64
	inDuration  float64

	callbacks Callbacks
}

// NewController builds an idle controller with the given phase durations
// in seconds. Non-positive durations snap their phase instantly.
func NewController(outDuration, inDuration float64) *Controller {
	return &Controller{
		state:       StateIdle,
		progress:    1,
		outDuration: outDuration,
		inDuration:  inDuration,
	}
}

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// Progress returns the current foldProgress in [0,1].
func (c *Controller) Progress() float64 { return c.progress }

// Begin starts a fold-out from idle. Calling it mid-transition first
// cancels the active one.
func (c *Controller) Begin(cb Callbacks) {
	if c.state != StateIdle {
		c.Cancel()
	}
	c.callbacks = cb
	c.state = StateFoldingOut
	c.elapsed = 0
	c.progress = 1
}

// RebuildComplete signals that the host finished rebuilding the scene.
// The fold-in phase never begins before this.
func (c *Controller) RebuildComplete() {
	if c.state != StateRebuilding {
		return
	}
	c.state = StateFoldingIn
	c.elapsed = 0
}

// Cancel aborts any active transition: progress snaps to 0, the state
// reverts to idle, and no completion callback fires. Idempotent.
func (c *Controller) Cancel() {
	if c.state == StateIdle {
		return
	}
	c.state = StateIdle
	c.progress = 0
	c.elapsed = 0
	c.callbacks = Callbacks{}
}

// Tick advances the controller by dt seconds.
func (c *Controller) Tick(dt float64) {
	switch c.state {
	case StateFoldingOut:
		c.elapsed += dt
		u := phaseU(c.elapsed, c.outDuration)
		c.progress = 1 - ease.CosineEase(u)
		if u >= 1 {
			c.progress = 0
			c.state = StateRebuilding
			c.elapsed = 0
			if c.callbacks.FoldOutComplete != nil {
				c.callbacks.FoldOutComplete()
			}
		}
	case StateRebuilding:
		c.progress = 0
	case StateFoldingIn:
		c.elapsed += dt
		u := phaseU(c.elapsed, c.inDuration)
		c.progress = ease.CosineEase(u)
		if u >= 1 {
			c.progress = 1
			c.state = StateIdle
			done := c.callbacks.FoldInComplete
			c.callbacks = Callbacks{}
			if done != nil {
				done()
			}
		}
	}
}

func phaseU(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return ease.Clamp01(elapsed / duration)
}
