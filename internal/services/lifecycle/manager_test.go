package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownStopsInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	m.Register("http", func(context.Context) error { order = append(order, "http"); return nil })
	m.RegisterCloser("store", func() error { order = append(order, "store"); return nil })
	m.Register("scheduler", func(context.Context) error { order = append(order, "scheduler"); return nil })

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	want := []string{"scheduler", "store", "http"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestShutdownJoinsErrorsAndRunsOnce(t *testing.T) {
	m := New(time.Second, nil)
	boom := errors.New("boom")
	calls := 0
	m.Register("a", func(context.Context) error { calls++; return boom })
	m.Register("b", func(context.Context) error { calls++; return nil })

	if err := m.Shutdown(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown should be a no-op, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 hook calls, got %d", calls)
	}
}

func TestShutdownAppliesDeadline(t *testing.T) {
	m := New(20*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
