package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/homeharmony/backend/internal/infrastructure/buffer"
)

func TestRefreshRecordsProbeResults(t *testing.T) {
	ok := Probe{Name: "primary", Check: func(context.Context) error { return nil }}
	down := Probe{Name: "cache", Check: func(context.Context) error { return errors.New("refused") }}

	m := New(nil, time.Minute, nil, ok)
	m.Refresh()
	if !m.IsOnline() {
		t.Fatalf("expected online with a healthy probe")
	}

	m = New(nil, time.Minute, nil, ok, down)
	m.Refresh()
	if m.IsOnline() {
		t.Fatalf("expected offline when a probe fails")
	}
	status := m.GetStatus()
	if !status.Components["primary"] || status.Components["cache"] {
		t.Fatalf("unexpected components: %+v", status.Components)
	}

	status.Components["cache"] = true
	if m.GetStatus().Components["cache"] {
		t.Fatalf("status snapshot must be a copy")
	}
}

func TestRefreshReportsBufferSize(t *testing.T) {
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "buffer")
	if err != nil {
		t.Fatalf("open buffer: %v", err)
	}
	defer store.Close()

	entry, err := buffer.NewEntry(buffer.EntityItem, "create", map[string]string{"id": "i1"})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if err := store.Enqueue(entry); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	m := New(store, time.Minute, nil)
	m.Refresh()
	status := m.GetStatus()
	if status.BufferSize != 1 || !status.Components["buffer"] {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestProbeTimeoutCountsAsFailure(t *testing.T) {
	slow := Probe{Name: "slow", Timeout: 10 * time.Millisecond, Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	m := New(nil, time.Minute, nil, slow)
	m.Refresh()
	if m.IsOnline() {
		t.Fatalf("expected timed out probe to be unhealthy")
	}
}
