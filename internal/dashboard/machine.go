// Package dashboard sequences the login and profile load for one terminal
// session and guards against results arriving after a logout.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Phase is where the session is in the login-then-load chain.
type Phase int

const (
	PhaseLoggedOut Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseFetching
	PhaseReady
	// PhaseFailed behaves like PhaseLoggedOut and carries the last error.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoggedOut:
		return "logged-out"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidTransition is returned when an operation is not allowed in the
// current phase.
var ErrInvalidTransition = errors.New("invalid transition")

// Ticket identifies one login-then-load chain. Results are applied only while
// their ticket is current.
type Ticket struct {
	gen uuid.UUID
}

// String is the chain id used in logs.
func (t Ticket) String() string { return t.gen.String() }

// Machine is the phase state machine. It is not safe for concurrent use; the
// owner (the TUI update loop or a CLI command) drives it from one goroutine.
type Machine struct {
	phase Phase
	gen   uuid.UUID
	err   error
}

// NewMachine starts logged out.
func NewMachine() *Machine {
	return &Machine{phase: PhaseLoggedOut, gen: uuid.New()}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Err returns the error that moved the machine to PhaseFailed, if any.
func (m *Machine) Err() error { return m.err }

// LoggedOut reports whether the login form should be shown.
func (m *Machine) LoggedOut() bool {
	return m.phase == PhaseLoggedOut || m.phase == PhaseFailed
}

// Current reports whether t belongs to the live chain.
func (m *Machine) Current(t Ticket) bool { return t.gen == m.gen }

func (m *Machine) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, m.phase)
}

// rotate invalidates every outstanding ticket.
func (m *Machine) rotate() Ticket {
	m.gen = uuid.New()
	return Ticket{gen: m.gen}
}

// BeginLogin starts a credential exchange: LoggedOut|Failed → Authenticating.
func (m *Machine) BeginLogin() (Ticket, error) {
	if !m.LoggedOut() {
		return Ticket{}, m.invalid("login")
	}
	m.phase = PhaseAuthenticating
	m.err = nil
	return m.rotate(), nil
}

// Restore adopts a stored credential: LoggedOut|Failed → Authenticated.
func (m *Machine) Restore() (Ticket, error) {
	if !m.LoggedOut() {
		return Ticket{}, m.invalid("restore")
	}
	m.phase = PhaseAuthenticated
	m.err = nil
	return m.rotate(), nil
}

// LoginSucceeded applies a finished exchange: Authenticating → Authenticated.
// It returns false, changing nothing, for a stale ticket or wrong phase.
func (m *Machine) LoginSucceeded(t Ticket) bool {
	if !m.Current(t) || m.phase != PhaseAuthenticating {
		return false
	}
	m.phase = PhaseAuthenticated
	return true
}

// BeginFetch starts the profile query: Authenticated|Ready → Fetching. It is
// never allowed before the credential exchange has completed.
func (m *Machine) BeginFetch(t Ticket) error {
	if !m.Current(t) {
		return fmt.Errorf("%w: stale ticket", ErrInvalidTransition)
	}
	if m.phase != PhaseAuthenticated && m.phase != PhaseReady {
		return m.invalid("fetch")
	}
	m.phase = PhaseFetching
	return nil
}

// FetchSucceeded applies a finished query: Fetching → Ready.
func (m *Machine) FetchSucceeded(t Ticket) bool {
	if !m.Current(t) || m.phase != PhaseFetching {
		return false
	}
	m.phase = PhaseReady
	return true
}

// Fail records err for a running step: Authenticating|Fetching → Failed.
func (m *Machine) Fail(t Ticket, err error) bool {
	if !m.Current(t) {
		return false
	}
	if m.phase != PhaseAuthenticating && m.phase != PhaseFetching {
		return false
	}
	m.phase = PhaseFailed
	m.err = err
	return true
}

// Logout returns to LoggedOut from any phase and invalidates outstanding
// tickets, so in-flight results are dropped when they arrive.
func (m *Machine) Logout() {
	m.phase = PhaseLoggedOut
	m.err = nil
	m.rotate()
}
