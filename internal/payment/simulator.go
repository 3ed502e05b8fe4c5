package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSuccessRate = 0.9
	defaultDelay       = time.Second
)

// Simulator is a stand-in processor: it waits a configurable delay and then
// approves a configurable fraction of charges. Refunds always succeed.
type Simulator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
	delay       time.Duration
}

type SimulatorOption func(*Simulator)

// WithSuccessRate sets the fraction of charges that succeed, in [0, 1].
func WithSuccessRate(rate float64) SimulatorOption {
	return func(s *Simulator) {
		if rate >= 0 && rate <= 1 {
			s.successRate = rate
		}
	}
}

// WithDelay sets the simulated processor latency.
func WithDelay(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithSeed makes the simulator deterministic.
func WithSeed(seed int64) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: defaultSuccessRate,
		delay:       defaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	success := s.rng.Float64() < s.successRate
	s.mu.Unlock()

	if !success {
		return Result{
			Success:       false,
			TransactionID: uuid.NewString(),
			Message:       "Payment failed - insufficient funds",
		}, nil
	}
	return Result{
		Success:       true,
		TransactionID: uuid.NewString(),
		Message:       "Payment processed successfully",
	}, nil
}

func (s *Simulator) Refund(ctx context.Context, transactionID string) (bool, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Simulator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
