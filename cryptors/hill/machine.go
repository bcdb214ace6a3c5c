package hill

import (
	"errors"
	"sync"

	"github.com/bgallie/hill/cryptors/matrix"
)

// ErrNoKey is returned by a Machine that has not been given a key.
var ErrNoKey = errors.New("hill: no key set")

// State is the key state of a Machine.
type State int

const (
	Idle State = iota
	Validating
	Ready
	Blocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Ready:
		return "ready"
	case Blocked:
		return "blocked"
	}

	return "unknown"
}

// Machine holds the current key of an interactive caller and gates
// Encrypt and Decrypt on its validity.  Every SetKey revalidates from
// scratch.
type Machine struct {
	// OnTransition, when set, is called for every state change.
	OnTransition func(from, to State)

	mu     sync.RWMutex
	state  State
	cipher *Cipher
	reason error
}

// NewMachine returns a Machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Reason returns why the machine is Blocked, or nil.
func (m *Machine) Reason() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}

// SetKey validates k and moves the machine to Ready or Blocked.
func (m *Machine) SetKey(k matrix.Matrix) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transition(Validating)
	c, err := NewCipher(k)
	if err != nil {
		m.cipher, m.reason = nil, err
		m.transition(Blocked)
		return m.state
	}

	m.cipher, m.reason = c, nil
	m.transition(Ready)
	return m.state
}

// Reset forgets the key and returns to Idle.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cipher, m.reason = nil, nil
	m.transition(Idle)
}

// Encrypt enciphers text with the current key.
func (m *Machine) Encrypt(text string, obs Observer) (string, error) {
	c, err := m.ready()
	if err != nil {
		return "", err
	}

	return c.Encrypt(text, obs)
}

// Decrypt deciphers text with the current key.
func (m *Machine) Decrypt(text string, obs Observer) (string, error) {
	c, err := m.ready()
	if err != nil {
		return "", err
	}

	return c.Decrypt(text, obs)
}

func (m *Machine) ready() (*Cipher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch m.state {
	case Ready:
		return m.cipher, nil
	case Blocked:
		return nil, m.reason
	}

	return nil, ErrNoKey
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	if m.OnTransition != nil && from != to {
		m.OnTransition(from, to)
	}
}
