// Package tntsource turns a passphrase into a reproducible stream of random
// integers.  It runs zero filled blocks through a tntengine encryption
// machine and draws from the resulting key stream, so the same passphrase
// and proforma machine always yield the same key matrices.
//
// tntengine keeps package level state that every Init advances, and every
// machine it builds shares one block counter.  Building a second machine
// for a passphrase would therefore give different rotors, so machines are
// built once per (passphrase, proforma) pair and cached for the life of the
// process.  All use of those machines is serialized.
package tntsource

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/bgallie/tntengine"

	"github.com/bgallie/hill/cryptors/key"
)

var (
	// ErrEmptySecret is returned by New when no passphrase is given.
	ErrEmptySecret = errors.New("tntsource: passphrase is empty")

	// ErrRange is returned by Intn for bounds outside [1, 256].
	ErrRange = errors.New("tntsource: bound out of range")

	// ErrClosed is returned by Intn after Close.
	ErrClosed = errors.New("tntsource: source is closed")

	// ErrNegativeStart is returned by New for a negative block count.
	ErrNegativeStart = errors.New("tntsource: start block is negative")
)

// machineID identifies a cached machine without keeping the passphrase.
type machineID [sha256.Size]byte

// engineMu guards machines and every block sent through a cached engine.
var (
	engineMu sync.Mutex
	machines = make(map[machineID]*tntengine.TntEngine)
)

// Source is a key.Source seeded from a passphrase.  It is safe for
// concurrent use, but concurrent callers see an interleaved stream.
// Sources built from the same passphrase share a machine; each one keeps
// its own block count.
type Source struct {
	mu      sync.Mutex
	engine  *tntengine.TntEngine
	index   *big.Int
	pending []byte
	closed  bool
}

var _ key.Source = (*Source)(nil)

// New returns a source for secret.  proForma names the proforma machine
// file; an empty name selects the builtin one.  start positions the source
// at a block count; nil means zero.
func New(secret, proForma string, start *big.Int) (*Source, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	index := new(big.Int)
	if start != nil {
		if start.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeStart, start)
		}
		index.Set(start)
	}

	return &Source{engine: machineFor(secret, proForma), index: index}, nil
}

func idOf(secret, proForma string) machineID {
	h := sha256.New()
	h.Write([]byte(proForma))
	h.Write([]byte{0})
	h.Write([]byte(secret))

	var id machineID
	copy(id[:], h.Sum(nil))
	return id
}

func machineFor(secret, proForma string) *tntengine.TntEngine {
	id := idOf(secret, proForma)

	engineMu.Lock()
	defer engineMu.Unlock()

	if e, ok := machines[id]; ok {
		return e
	}

	e := new(tntengine.TntEngine)
	e.Init([]byte(secret), proForma)
	// Init leaves the proforma machine running on Left/Right.
	var stop tntengine.CypherBlock
	e.Left() <- stop
	<-e.Right()

	e.SetEngineType("E")
	e.BuildCipherMachine()
	machines[id] = e

	return e
}

// Index returns the block count the source has reached.
func (s *Source) Index() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.index)
}

// Intn returns an integer uniformly distributed in [0, n) for 1 <= n <= 256.
// Bytes at or above the largest multiple of n are rejected.
func (s *Source) Intn(n int) (int, error) {
	if n < 1 || n > 256 {
		return 0, fmt.Errorf("%w: %d", ErrRange, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	limit := 256 - 256%n
	for {
		if len(s.pending) == 0 {
			s.refill()
		}

		b := int(s.pending[0])
		s.pending = s.pending[1:]
		if b < limit {
			return b % n, nil
		}
	}
}

// Close releases the source.  The machine stays cached for later sources
// built from the same passphrase.  It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil

	return nil
}

func (s *Source) refill() {
	engineMu.Lock()
	defer engineMu.Unlock()

	s.engine.SetIndex(s.index)
	blk := *new(tntengine.CypherBlock)
	blk.Length = tntengine.CypherBlockBytes
	s.engine.Left() <- blk
	blk = <-s.engine.Right()
	s.index.Add(s.index, tntengine.BigOne)

	s.pending = append(s.pending[:0], blk.CypherBlock[:blk.Length]...)
}
