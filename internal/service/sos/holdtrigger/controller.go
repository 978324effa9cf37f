package holdtrigger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Key identifies one arming slot: a user pressing the SOS button for a trip.
type Key struct {
	UserID uuid.UUID
	TripID uuid.UUID
}

// Haptics drives countdown feedback on the user's device.
// Implementations must be safe for concurrent use.
type Haptics interface {
	StartPulse(key Key)
	StopPulse(key Key)
}

// NoopHaptics is used when no haptics channel is configured.
type NoopHaptics struct{}

func (NoopHaptics) StartPulse(Key) {}
func (NoopHaptics) StopPulse(Key)  {}

// FireFunc is invoked exactly once per completed countdown.
// sessionID is the press session that armed the trigger; the alert pipeline
// uses it as an idempotency key.
type FireFunc func(key Key, sessionID uuid.UUID)

// tickerFactory abstracts time.Ticker so tests can drive ticks deterministically.
// The returned stop func must be safe to call more than once.
type tickerFactory func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	var once sync.Once
	return t.C, func() { once.Do(t.Stop) }
}

// slot is the mutable arming state for one key.
type slot struct {
	session  Session
	stopTick func()
	// generation guards against a stale tick goroutine mutating a slot
	// that has since been released and re-armed.
	generation uint64
}

// Controller owns all arming slots and serializes their transitions.
// One mutex for the whole map is enough: transitions are tiny and
// the cardinality is bounded by concurrently-arming users.
type Controller struct {
	params       Params
	tickInterval time.Duration
	newTicker    tickerFactory
	haptics      Haptics
	fire         FireFunc
	log          *slog.Logger

	mu     sync.Mutex
	slots  map[Key]*slot
	closed bool
}

// NewController creates a Controller.
// fire must not be nil; haptics may be nil (treated as NoopHaptics).
func NewController(params Params, tickInterval time.Duration, haptics Haptics, fire FireFunc, logger *slog.Logger) *Controller {
	if haptics == nil {
		haptics = NoopHaptics{}
	}
	return &Controller{
		params:       params,
		tickInterval: tickInterval,
		newTicker:    realTicker,
		haptics:      haptics,
		fire:         fire,
		log:          logger.With("component", "holdtrigger"),
		slots:        map[Key]*slot{},
	}
}

// Press starts or continues a countdown for the key.
// Pressing an already-arming key is idempotent and returns the running session.
func (c *Controller) Press(key Key) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sl := c.slot(key)
	if sl.session.State == StateArming || c.closed {
		return sl.session
	}

	prev := sl.session.State
	next, effects := c.params.Next(sl.session, EventPress)
	if next.State != StateArming {
		// Disabled slot: press is ignored.
		return sl.session
	}

	next.ID = uuid.New()
	sl.session = next
	sl.generation++
	c.applyEffects(key, sl, effects)
	c.startCountdown(key, sl)

	c.log.Debug("sos arming started",
		slog.String("user_id", key.UserID.String()),
		slog.String("trip_id", key.TripID.String()),
		slog.String("session_id", next.ID.String()),
		slog.String("prev_state", string(prev)),
	)

	return sl.session
}

// Release cancels a running countdown. Releasing an idle key is a no-op.
func (c *Controller) Release(key Key) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sl := c.slot(key)
	next, effects := c.params.Next(sl.session, EventRelease)
	if next.State != sl.session.State {
		c.log.Debug("sos arming cancelled",
			slog.String("user_id", key.UserID.String()),
			slog.String("session_id", sl.session.ID.String()),
		)
	}
	sl.session = next
	c.applyEffects(key, sl, effects)

	return sl.session
}

// Disable turns the trigger off for the key, cancelling any countdown.
func (c *Controller) Disable(key Key) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sl := c.slot(key)
	next, effects := c.params.Next(sl.session, EventDisable)
	sl.session = next
	c.applyEffects(key, sl, effects)

	return sl.session
}

// Enable turns a disabled trigger back on.
func (c *Controller) Enable(key Key) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sl := c.slot(key)
	next, effects := c.params.Next(sl.session, EventEnable)
	sl.session = next
	c.applyEffects(key, sl, effects)

	return sl.session
}

// Current returns the session snapshot for the key.
func (c *Controller) Current(key Key) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.slot(key).session
}

// Close cancels every running countdown. No alert fires after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for key, sl := range c.slots {
		if sl.session.State == StateArming {
			sl.session, _ = c.params.Next(sl.session, EventRelease)
			c.stopCountdown(sl)
			c.haptics.StopPulse(key)
		}
	}
}

// slot returns the slot for key, creating an idle one if absent.
// Caller must hold c.mu.
func (c *Controller) slot(key Key) *slot {
	sl, ok := c.slots[key]
	if !ok {
		sl = &slot{session: Session{State: StateIdle}}
		c.slots[key] = sl
	}
	return sl
}

// startCountdown launches the tick loop for an arming slot.
// Caller must hold c.mu.
func (c *Controller) startCountdown(key Key, sl *slot) {
	ticks, stop := c.newTicker(c.tickInterval)
	sl.stopTick = stop
	gen := sl.generation

	go func() {
		for range ticks {
			if fired := c.onTick(key, gen); fired {
				return
			}
		}
	}()
}

// onTick applies one tick to the slot identified by (key, gen).
// Returns true when the tick loop should exit: either the countdown fired
// or the session it belonged to is gone.
func (c *Controller) onTick(key Key, gen uint64) bool {
	c.mu.Lock()

	sl, ok := c.slots[key]
	if !ok || sl.generation != gen || sl.session.State != StateArming {
		c.mu.Unlock()
		return true
	}

	next, effects := c.params.Next(sl.session, EventTick)
	sl.session = next
	c.applyEffects(key, sl, effects)

	if next.State != StateTriggered {
		c.mu.Unlock()
		return false
	}

	// Countdown complete. Reset to idle before releasing the lock so a
	// subsequent press starts a fresh session, then fire outside the lock.
	sessionID := next.ID
	sl.session = Session{State: StateIdle}
	fire := c.fire
	closed := c.closed
	c.mu.Unlock()

	if !closed && fire != nil {
		c.log.Info("sos countdown complete",
			slog.String("user_id", key.UserID.String()),
			slog.String("trip_id", key.TripID.String()),
			slog.String("session_id", sessionID.String()),
		)
		fire(key, sessionID)
	}

	return true
}

// applyEffects performs transition effects. Caller must hold c.mu.
func (c *Controller) applyEffects(key Key, sl *slot, effects []Effect) {
	for _, e := range effects {
		switch e {
		case EffectStartVibration:
			c.haptics.StartPulse(key)
		case EffectStopVibration:
			c.stopCountdown(sl)
			c.haptics.StopPulse(key)
		case EffectFire:
			// Handled by onTick after the lock is released.
		}
	}
}

// stopCountdown stops the slot's ticker if one is running.
// Caller must hold c.mu.
func (c *Controller) stopCountdown(sl *slot) {
	if sl.stopTick != nil {
		sl.stopTick()
		sl.stopTick = nil
	}
}
