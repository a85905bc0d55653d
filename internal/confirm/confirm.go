// Package confirm implements the hold-to-confirm state machine that turns
// a noisy stream of per-frame letter predictions into discrete, debounced
// confirmed-letter events.
package confirm

import (
	"sync"
	"time"
)

// State identifies the phase of the confirmation state machine.
type State string

const (
	// StateWaiting means no hand is being tracked toward confirmation.
	StateWaiting State = "waiting"
	// StateHolding means a letter is detected and its hold time is
	// being tracked.
	StateHolding State = "holding"
	// StateDebouncing means a letter fired and further confirmations
	// are suppressed until the hand leaves the frame.
	StateDebouncing State = "debouncing"
)

// Observation is what the pipeline saw in one tick: whether a hand was
// present, and if so the instantaneous prediction for it.
type Observation struct {
	HandPresent bool
	Letter      string
	Confidence  float64
}

// NoHand is the observation for a tick where no landmarks were produced.
// Capture glitches and detection errors degrade to this.
var NoHand = Observation{}

// Event is an immutable confirmed-letter record, the unit carried over
// the handoff queue. One is created per completed hold and consumed
// exactly once by whichever consumer poll dequeues it.
type Event struct {
	Letter      string    `json:"letter"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Config holds the thresholds the machine is constructed with.
type Config struct {
	// MinConfidence is the minimum prediction confidence for a tick to
	// count toward a hold.
	MinConfidence float64
	// HoldDuration is how long a streak of consistent predictions must
	// last before the letter is confirmed.
	HoldDuration time.Duration
}

// Status is a read-only snapshot of the machine for UI feedback.
type Status struct {
	State    State   `json:"state"`
	Letter   string  `json:"letter,omitempty"`
	Progress float64 `json:"progress"` // 0.0 to 1.0 of the hold window
	Streak   int     `json:"streak"`
}

// Machine is the confirmation state machine. It is a total function of
// (current state, observation): Update never fails, it only transitions.
// Consistency during a hold is exact per-tick label equality with no
// majority-vote smoothing, trading single-frame misclassification
// tolerance for a guarantee that every confirmation was deliberate.
type Machine struct {
	config Config

	mu        sync.Mutex
	state     State
	letter    string
	startedAt time.Time
	streak    int
}

// NewMachine creates a Machine in the Waiting state.
func NewMachine(config Config) *Machine {
	return &Machine{
		config: config,
		state:  StateWaiting,
	}
}

// Update advances the machine by one tick and returns a confirmed event
// exactly when a hold completes (the Holding to Debouncing transition),
// nil otherwise. It must be called once per processed frame, whether or
// not a hand was detected.
func (m *Machine) Update(obs Observation, now time.Time) *Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	qualifies := obs.HandPresent && obs.Confidence >= m.config.MinConfidence

	switch m.state {
	case StateWaiting:
		if qualifies {
			m.toHolding(obs.Letter, now)
		}

	case StateHolding:
		if !obs.HandPresent {
			// Hand removed before the hold completed: the partial
			// hold is discarded so interrupted gestures never confirm.
			m.toWaiting()
			return nil
		}

		if qualifies && obs.Letter == m.letter {
			m.streak++
			if now.Sub(m.startedAt) >= m.config.HoldDuration {
				letter := m.letter
				m.state = StateDebouncing
				m.streak = 0
				return &Event{Letter: letter, ConfirmedAt: now}
			}
			return nil
		}

		// Broken streak: a different letter restarts the hold from
		// scratch, a low-confidence tick falls back to waiting.
		if qualifies {
			m.toHolding(obs.Letter, now)
		} else {
			m.toWaiting()
		}

	case StateDebouncing:
		// Ignore all predictions until the hand is fully removed, so
		// one sustained gesture fires exactly one event.
		if !obs.HandPresent {
			m.toWaiting()
		}
	}

	return nil
}

// Snapshot returns the machine's current state for UI feedback, with the
// hold progress evaluated at now.
func (m *Machine) Snapshot(now time.Time) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		State:  m.state,
		Letter: m.letter,
		Streak: m.streak,
	}

	switch m.state {
	case StateHolding:
		if m.config.HoldDuration > 0 {
			p := float64(now.Sub(m.startedAt)) / float64(m.config.HoldDuration)
			s.Progress = min(1.0, max(0.0, p))
		}
	case StateDebouncing:
		s.Progress = 1.0
	}

	return s
}

func (m *Machine) toHolding(letter string, now time.Time) {
	m.state = StateHolding
	m.letter = letter
	m.startedAt = now
	m.streak = 1
}

func (m *Machine) toWaiting() {
	m.state = StateWaiting
	m.letter = ""
	m.startedAt = time.Time{}
	m.streak = 0
}
