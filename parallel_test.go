package houdiniswap

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteParallelPreservesOrder(t *testing.T) {
	ops := make([]Operation, 20)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (any, error) {
			// Reverse the natural completion order.
			time.Sleep(time.Duration(20-i) * time.Millisecond)
			return i, nil
		}
	}

	outcomes := ExecuteParallel(context.Background(), ops, 10)
	if len(outcomes) != 20 {
		t.Fatalf("len(outcomes) = %d, want 20", len(outcomes))
	}
	for i, out := range outcomes {
		if out.Err != nil {
			t.Fatalf("outcome[%d] error: %v", i, out.Err)
		}
		if out.Value != i {
			t.Errorf("outcome[%d] = %v, want %d", i, out.Value, i)
		}
	}
}

func TestExecuteParallelIsolatesFailures(t *testing.T) {
	ops := make([]Operation, 5)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (any, error) {
			if i == 2 {
				return nil, &Error{Kind: KindNetwork, Message: "connection reset"}
			}
			return fmt.Sprintf("result-%d", i), nil
		}
	}

	outcomes := ExecuteParallel(context.Background(), ops, 5)

	for i, out := range outcomes {
		if i == 2 {
			if out.Err == nil {
				t.Error("outcome[2] should carry the failure")
			}
			continue
		}
		if out.Err != nil {
			t.Errorf("outcome[%d] unexpectedly failed: %v", i, out.Err)
		}
		if out.Value != fmt.Sprintf("result-%d", i) {
			t.Errorf("outcome[%d] = %v", i, out.Value)
		}
	}
}

func TestExecuteParallelBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32

	ops := make([]Operation, 12)
	for i := range ops {
		ops[i] = func(ctx context.Context) (any, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return nil, nil
		}
	}

	ExecuteParallel(context.Background(), ops, 3)

	if got := atomic.LoadInt32(&peak); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
}

func TestExecuteParallelDefaults(t *testing.T) {
	if got := ExecuteParallel(context.Background(), nil, 5); len(got) != 0 {
		t.Errorf("empty input produced %d outcomes", len(got))
	}

	ops := []Operation{
		func(ctx context.Context) (any, error) { return "ok", nil },
		nil,
	}
	outcomes := ExecuteParallel(context.Background(), ops, 0)
	if outcomes[0].Err != nil || outcomes[0].Value != "ok" {
		t.Errorf("outcome[0] = %+v", outcomes[0])
	}
	if kindOf(outcomes[1].Err) != KindValidation {
		t.Errorf("nil operation should yield a Validation outcome, got %v", outcomes[1].Err)
	}
}
