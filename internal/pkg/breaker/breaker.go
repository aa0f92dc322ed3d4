package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/lavrik91/test-task-1/internal/config"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	Closed   State = iota // normal operation
	Open                  // requests rejected until OpenTimeout passes
	HalfOpen              // limited trial requests
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker opens after Threshold consecutive failures in Closed state,
// rejects everything for OpenTimeout, then lets up to MaxHalfOpen trial
// calls through. Callers report outcomes with Success/Failure.
type Breaker struct {
	mu          sync.Mutex
	state       State
	errs        int
	threshold   int
	openTimeout time.Duration
	trial       int
	maxHalfOpen int
	lastChange  time.Time

	now func() time.Time
	// onChange is notified outside of the lock.
	onChange func(from, to State)
}

type Option func(*Breaker)

func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

func OnStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

func New(cfg config.Breaker, opts ...Option) *Breaker {
	b := &Breaker{
		state:       Closed,
		threshold:   cfg.Threshold,
		openTimeout: cfg.OpenTimeout,
		maxHalfOpen: cfg.MaxHalfOpen,
		now:         time.Now,
	}
	if b.threshold < 1 {
		b.threshold = 1
	}
	if b.maxHalfOpen < 1 {
		b.maxHalfOpen = 1
	}
	for _, o := range opts {
		o(b)
	}
	b.lastChange = b.now()
	return b
}

// Allow returns ErrOpen if the call must not proceed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	from := b.state
	var err error
	switch b.state {
	case Open:
		if b.now().Sub(b.lastChange) < b.openTimeout {
			err = ErrOpen
			break
		}
		b.transitionTo(HalfOpen)
		b.trial = 1
	case HalfOpen:
		if b.trial >= b.maxHalfOpen {
			err = ErrOpen
			break
		}
		b.trial++
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *Breaker) Success() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case HalfOpen:
		b.transitionTo(Closed)
	case Closed:
		b.errs = 0
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case HalfOpen:
		b.transitionTo(Open)
	case Closed:
		b.errs++
		if b.errs >= b.threshold {
			b.transitionTo(Open)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do is the Allow/Success/Failure sequence around fn.
func (b *Breaker) Do(fn func() error) error {
	if err := b.Allow(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.Failure()
		return err
	}
	b.Success()
	return nil
}

func (b *Breaker) transitionTo(next State) {
	b.state = next
	b.lastChange = b.now()
	b.trial = 0
	if next == Closed {
		b.errs = 0
	}
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
