// Package breaker implements a three-state circuit breaker used to isolate
// failing translation providers.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/transroute/internal"
)

// ErrOpen is returned when the breaker rejects a call without invoking it.
// Rejections are counted separately from execution failures.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker FSM state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config tunes a single breaker. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens a
	// closed breaker.
	FailureThreshold int `mapstructure:"failure_threshold" json:"failure_threshold"`
	// RecoveryTimeout is how long an open breaker waits after the last
	// failure before admitting a half-open probe.
	RecoveryTimeout time.Duration `mapstructure:"recovery_timeout" json:"recovery_timeout"`
	// ExpectedTimeout bounds each wrapped call; exceeding it is a failure.
	ExpectedTimeout time.Duration `mapstructure:"expected_timeout" json:"expected_timeout"`
	// SuccessThreshold is the number of half-open successes that closes the
	// breaker again.
	SuccessThreshold int `mapstructure:"success_threshold" json:"success_threshold"`
	// MaxConcurrentProbes bounds how many half-open calls may be in flight.
	MaxConcurrentProbes int `mapstructure:"max_concurrent_probes" json:"max_concurrent_probes"`
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold:    5,
		RecoveryTimeout:     30 * time.Second,
		ExpectedTimeout:     30 * time.Second,
		SuccessThreshold:    2,
		MaxConcurrentProbes: 1,
	}
}

func (c Config) validate() error {
	switch {
	case c.FailureThreshold < 1:
		return &internal.ConfigError{Component: "breaker", Field: "failure_threshold", Reason: "must be >= 1"}
	case c.RecoveryTimeout <= 0:
		return &internal.ConfigError{Component: "breaker", Field: "recovery_timeout", Reason: "must be positive"}
	case c.ExpectedTimeout <= 0:
		return &internal.ConfigError{Component: "breaker", Field: "expected_timeout", Reason: "must be positive"}
	case c.SuccessThreshold < 1:
		return &internal.ConfigError{Component: "breaker", Field: "success_threshold", Reason: "must be >= 1"}
	case c.MaxConcurrentProbes < 1:
		return &internal.ConfigError{Component: "breaker", Field: "max_concurrent_probes", Reason: "must be >= 1"}
	}
	return nil
}

// Stats is a point-in-time snapshot of one breaker.
type Stats struct {
	Name            string    `json:"name"`
	State           string    `json:"state"`
	FailureCount    int       `json:"failure_count"`
	SuccessCount    int       `json:"success_count"`
	TotalCalls      uint64    `json:"total_calls"`
	SuccessfulCalls uint64    `json:"successful_calls"`
	FailedCalls     uint64    `json:"failed_calls"`
	Rejections      uint64    `json:"rejections"`
	TimesOpened     uint64    `json:"times_opened"`
	LastFailure     time.Time `json:"last_failure,omitempty"`
	LastStateChange time.Time `json:"last_state_change"`
}

// CircuitBreaker guards calls to a single named dependency. All state lives
// behind one mutex; the wrapped function itself runs outside the lock.
type CircuitBreaker struct {
	name string
	cfg  Config
	log  *zap.Logger

	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailure     time.Time
	lastStateChange time.Time
	probesInFlight  int

	totalCalls      uint64
	successfulCalls uint64
	failedCalls     uint64
	rejections      uint64
	timesOpened     uint64
}

// New creates a closed breaker. A nil logger disables logging.
func New(name string, cfg Config, log *zap.Logger) (*CircuitBreaker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CircuitBreaker{
		name:            name,
		cfg:             cfg,
		log:             log,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}, nil
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// Call runs fn under the breaker's ExpectedTimeout. A rejection returns
// ErrOpen without invoking fn; a deadline overrun counts as a failure even if
// fn is still running underneath.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	admitted, probe := cb.admit()
	if !admitted {
		return fmt.Errorf("%s: %w", cb.name, ErrOpen)
	}

	callCtx, cancel := context.WithTimeout(ctx, cb.cfg.ExpectedTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%s: panic in wrapped call: %v", cb.name, r)
			}
		}()
		done <- fn(callCtx)
	}()

	var err error
	select {
	case err = <-done:
	case <-callCtx.Done():
		err = fmt.Errorf("%s: call exceeded %s: %w", cb.name, cb.cfg.ExpectedTimeout, callCtx.Err())
	}

	cb.settle(err, probe)
	return err
}

// admit decides whether a call may proceed. The second return value reports
// whether the call holds a half-open probe slot that settle must release.
func (cb *CircuitBreaker) admit() (admitted, probe bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.totalCalls++
		return true, false

	case StateOpen:
		if time.Since(cb.lastFailure) >= cb.cfg.RecoveryTimeout && cb.probesInFlight < cb.cfg.MaxConcurrentProbes {
			cb.toHalfOpenLocked()
			cb.probesInFlight++
			cb.totalCalls++
			return true, true
		}
		cb.rejections++
		return false, false

	case StateHalfOpen:
		if cb.probesInFlight < cb.cfg.MaxConcurrentProbes {
			cb.probesInFlight++
			cb.totalCalls++
			return true, true
		}
		cb.rejections++
		return false, false
	}

	cb.rejections++
	return false, false
}

// settle records the outcome of an admitted call and releases its probe slot.
// The slot is released exactly once; transitions to Open reset the counter,
// so the release is floored at zero.
func (cb *CircuitBreaker) settle(err error, probe bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe && cb.probesInFlight > 0 {
		cb.probesInFlight--
	}

	if err != nil {
		cb.failedCalls++
		cb.failureCount++
		cb.lastFailure = time.Now()

		switch cb.state {
		case StateClosed:
			if cb.failureCount >= cb.cfg.FailureThreshold {
				cb.toOpenLocked()
			}
		case StateHalfOpen:
			// A single half-open failure reopens the breaker.
			cb.toOpenLocked()
		}
		return
	}

	cb.successfulCalls++
	cb.successCount++
	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		if cb.successCount >= cb.cfg.SuccessThreshold {
			cb.toClosedLocked()
		}
	}
}

func (cb *CircuitBreaker) toOpenLocked() {
	cb.state = StateOpen
	cb.timesOpened++
	cb.lastStateChange = time.Now()
	cb.probesInFlight = 0
	cb.log.Warn("circuit breaker opened",
		zap.String("breaker", cb.name),
		zap.Int("failure_count", cb.failureCount))
}

func (cb *CircuitBreaker) toHalfOpenLocked() {
	cb.state = StateHalfOpen
	cb.successCount = 0
	cb.lastStateChange = time.Now()
	cb.log.Info("circuit breaker half-open", zap.String("breaker", cb.name))
}

func (cb *CircuitBreaker) toClosedLocked() {
	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.lastStateChange = time.Now()
	cb.log.Info("circuit breaker closed", zap.String("breaker", cb.name))
}

// State returns the current FSM state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns a snapshot of counters and state.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{
		Name:            cb.name,
		State:           cb.state.String(),
		FailureCount:    cb.failureCount,
		SuccessCount:    cb.successCount,
		TotalCalls:      cb.totalCalls,
		SuccessfulCalls: cb.successfulCalls,
		FailedCalls:     cb.failedCalls,
		Rejections:      cb.rejections,
		TimesOpened:     cb.timesOpened,
		LastFailure:     cb.lastFailure,
		LastStateChange: cb.lastStateChange,
	}
}

// Reset forces the breaker back to closed and clears FSM counters.
// Cumulative call statistics are preserved.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.probesInFlight = 0
	cb.lastStateChange = time.Now()
}
