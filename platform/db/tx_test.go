package db

import (
	"context"
	"errors"
	"testing"
)

func TestNoTxRunsHooksOnlyAfterSuccess(t *testing.T) {
	var calls []string

	err := NoTx{}.Do(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { calls = append(calls, "hook") })
		calls = append(calls, "body")
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "body" || calls[1] != "hook" {
		t.Fatalf("expected body then hook, got %v", calls)
	}
}

func TestNoTxDropsHooksOnError(t *testing.T) {
	fired := false
	boom := errors.New("boom")

	err := NoTx{}.Do(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { fired = true })
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if fired {
		t.Fatal("hook fired after failed unit of work")
	}
}

func TestNestedDoJoinsOuterScope(t *testing.T) {
	order := make([]string, 0, 3)

	err := NoTx{}.Do(context.Background(), func(ctx context.Context) error {
		return NoTx{}.Do(ctx, func(inner context.Context) error {
			AfterCommit(inner, func(context.Context) { order = append(order, "inner-hook") })
			order = append(order, "inner-body")
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if len(order) != 2 || order[0] != "inner-body" || order[1] != "inner-hook" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestAfterCommitOutsideUnitRunsImmediately(t *testing.T) {
	fired := false
	AfterCommit(context.Background(), func(context.Context) { fired = true })
	if !fired {
		t.Fatal("expected hook to run immediately")
	}
}
