package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// manualClock never ticks on its own.
type manualClock struct{ stops int }

func (c *manualClock) Every(time.Duration, func()) func() {
	return func() { c.stops++ }
}

func newSession(t *testing.T, clk game.Clock) *game.Session {
	t.Helper()
	s, err := game.NewSession(game.Beginner, game.WithClock(clk), game.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(0)
	clk := &manualClock{}
	s := newSession(t, clk)

	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}

	s.HandleClick(4, 4, game.ButtonLeft)
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if clk.stops != 1 {
		t.Fatalf("delete stopped the clock %d times", clk.stops)
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	if err := st.Delete(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)
	clk := &manualClock{}
	s := newSession(t, clk)
	s.HandleClick(0, 0, game.ButtonLeft)
	_ = st.Save(ctx, s)

	if n := st.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh session evicted (%d)", n)
	}
	if n := st.Sweep(time.Now().Add(2 * time.Hour)); n != 1 {
		t.Fatalf("Sweep evicted %d, want 1", n)
	}
	if st.Len() != 0 {
		t.Fatal("store still holds the evicted session")
	}
	if clk.stops != 1 {
		t.Fatalf("eviction stopped the clock %d times", clk.stops)
	}
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	st := NewMemoryStore(0)
	_ = st.Save(context.Background(), newSession(t, &manualClock{}))
	if n := st.Sweep(time.Now().Add(1000 * time.Hour)); n != 0 {
		t.Fatalf("Sweep evicted %d with TTL disabled", n)
	}
}

func TestCloseStopsEverything(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)
	clk := &manualClock{}
	for i := 0; i < 3; i++ {
		s := newSession(t, clk)
		s.HandleClick(4, 4, game.ButtonLeft)
		_ = st.Save(ctx, s)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 || clk.stops != 3 {
		t.Fatalf("Len=%d stops=%d after Close", st.Len(), clk.stops)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	st := NewMemoryStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
