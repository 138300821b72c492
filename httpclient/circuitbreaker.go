package httpclient

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned in place of calling the wrapped handler while
// the circuit breaker is open.
var ErrCircuitOpen = errors.New("httpclient: circuit breaker open")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// CircuitBreaker trips after a run of consecutive failures and fails fast
// for recoveryTimeout before allowing a single trial request through
// (half-open), closing again on its success.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            circuitState
	failures         int
	failureThreshold int
	recoveryTimeout  time.Duration
	openedAt         time.Time
}

// NewCircuitBreaker builds a breaker that opens after failureThreshold
// consecutive failures and stays open for recoveryTimeout.
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
	}
}

// Allow reports whether a call may proceed, transitioning Open to
// HalfOpen once the recovery timeout has elapsed.
func (c *CircuitBreaker) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case circuitOpen:
		if time.Since(c.openedAt) >= c.recoveryTimeout {
			c.state = circuitHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// RecordSuccess closes the circuit and resets the failure count.
func (c *CircuitBreaker) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	c.state = circuitClosed
}

// RecordFailure increments the failure count, opening the circuit once the
// threshold is reached (or immediately, from half-open).
func (c *CircuitBreaker) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == circuitHalfOpen {
		c.state = circuitOpen
		c.openedAt = time.Now()
		return
	}

	c.failures++
	if c.failures >= c.failureThreshold {
		c.state = circuitOpen
		c.openedAt = time.Now()
	}
}
