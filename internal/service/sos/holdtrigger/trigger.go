// Package holdtrigger implements the press-and-hold SOS arming state machine.
// The reducer is pure; the Controller owns timers and side effects. Keeping
// the transition logic free of time and I/O makes every path unit-testable.
package holdtrigger

import "github.com/google/uuid"

// State is the arming state for one (user, trip) pair.
type State string

const (
	// StateIdle means no press is in progress.
	StateIdle State = "IDLE"
	// StateArming means the button is held and the countdown is running.
	StateArming State = "ARMING"
	// StateTriggered is the momentary state entered when the countdown
	// completes; the Controller fires the alert exactly once and returns
	// the session to idle.
	StateTriggered State = "TRIGGERED"
	// StateDisabled means the trigger ignores presses until re-enabled.
	StateDisabled State = "DISABLED"
)

// Event is an input to the state machine.
type Event string

const (
	// EventPress is the start of a button hold.
	EventPress Event = "PRESS"
	// EventRelease is the end of a button hold before the countdown completes.
	EventRelease Event = "RELEASE"
	// EventTick is one elapsed countdown interval while arming.
	EventTick Event = "TICK"
	// EventDisable turns the trigger off, cancelling any countdown.
	EventDisable Event = "DISABLE"
	// EventEnable turns a disabled trigger back on.
	EventEnable Event = "ENABLE"
)

// Effect is a side effect the Controller must perform after a transition.
type Effect string

const (
	// EffectStartVibration begins haptic feedback for the countdown.
	EffectStartVibration Effect = "START_VIBRATION"
	// EffectStopVibration ends haptic feedback.
	EffectStopVibration Effect = "STOP_VIBRATION"
	// EffectFire emits the SOS alert. Produced by exactly one transition:
	// the tick that exhausts the countdown.
	EffectFire Effect = "FIRE"
)

// Params configures the countdown.
type Params struct {
	// HoldTicks is the number of intervals the button must be held.
	HoldTicks int
}

// Session is the immutable state snapshot for one (user, trip) pair.
// The ID identifies a single press; it doubles as the idempotency key
// for the alert created when the countdown completes.
type Session struct {
	ID             uuid.UUID
	State          State
	RemainingTicks int
}

// Next applies an event to a session and returns the new session plus the
// effects to perform. Unknown or out-of-order events leave the session
// unchanged with no effects.
func (p Params) Next(s Session, ev Event) (Session, []Effect) {
	switch s.State {
	case StateIdle:
		if ev == EventPress {
			s.State = StateArming
			s.RemainingTicks = p.HoldTicks
			return s, []Effect{EffectStartVibration}
		}
		if ev == EventDisable {
			s.State = StateDisabled
			return s, nil
		}

	case StateArming:
		switch ev {
		case EventTick:
			s.RemainingTicks--
			if s.RemainingTicks <= 0 {
				s.State = StateTriggered
				s.RemainingTicks = 0
				return s, []Effect{EffectStopVibration, EffectFire}
			}
			return s, nil
		case EventRelease:
			s.State = StateIdle
			s.RemainingTicks = 0
			return s, []Effect{EffectStopVibration}
		case EventDisable:
			s.State = StateDisabled
			s.RemainingTicks = 0
			return s, []Effect{EffectStopVibration}
		case EventPress:
			// Already armed; the countdown keeps running.
			return s, nil
		}

	case StateTriggered:
		// Momentary state; the Controller resets to idle after firing.
		// Events racing with the reset are ignored.
		return s, nil

	case StateDisabled:
		if ev == EventEnable {
			s.State = StateIdle
			s.RemainingTicks = 0
			return s, nil
		}
	}

	return s, nil
}
