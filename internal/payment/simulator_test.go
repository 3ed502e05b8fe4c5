package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSimulator_Charge(t *testing.T) {
	t.Parallel()

	req := ChargeRequest{Amount: decimal.NewFromInt(100), Method: "credit_card"}

	t.Run("always succeeds at rate one", func(t *testing.T) {
		sim := NewSimulator(WithSuccessRate(1), WithDelay(0), WithSeed(1))
		for i := 0; i < 20; i++ {
			res, err := sim.Charge(context.Background(), req)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !res.Success {
				t.Fatalf("expected success at rate 1")
			}
			if res.TransactionID == "" {
				t.Fatalf("expected transaction id")
			}
		}
	})

	t.Run("always fails at rate zero", func(t *testing.T) {
		sim := NewSimulator(WithSuccessRate(0), WithDelay(0), WithSeed(1))
		res, err := sim.Charge(context.Background(), req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Success {
			t.Fatalf("expected failure at rate 0")
		}
		if res.Message == "" {
			t.Fatalf("expected failure message")
		}
	})

	t.Run("cancelled context aborts the charge", func(t *testing.T) {
		sim := NewSimulator(WithDelay(time.Minute))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.Charge(ctx, req)
		if err == nil {
			t.Fatalf("expected context error")
		}
	})
}

func TestSimulator_Refund(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(WithDelay(0))
	ok, err := sim.Refund(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatalf("expected refund to succeed")
	}
}
