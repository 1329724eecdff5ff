package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManager_ShutdownOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"store", "session", "http"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("nil", nil)

	if got := m.Components(); len(got) != 3 || got[0] != "http" {
		t.Errorf("Components() = %v", got)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	want := []string{"http", "session", "store"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	if err := m.Shutdown(context.Background()); err != nil || len(order) != 3 {
		t.Errorf("second Shutdown() ran hooks again: %v %v", order, err)
	}
	m.Register("late", func(context.Context) error { t.Error("late hook ran"); return nil })
	if len(m.Components()) != 0 {
		t.Error("late hook should be ignored")
	}
}

func TestManager_ShutdownJoinsErrors(t *testing.T) {
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := false
	m.Register("a", func(context.Context) error { return errA })
	m.Register("ok", func(context.Context) error { ran = true; return nil })
	m.Register("b", func(context.Context) error { return errB })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both failures", err)
	}
	if !ran {
		t.Error("a failing hook must not stop the rest")
	}
}

func TestManager_ShutdownHasDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("hook context has no deadline")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v", err)
	}
}
