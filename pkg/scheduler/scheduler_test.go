package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueRunsInOrderAndIncludesNewTasks(t *testing.T) {
	q := NewQueue()
	var got []int
	q.Schedule(func() {
		got = append(got, 1)
		q.Schedule(func() { got = append(got, 3) })
	})
	q.Schedule(func() { got = append(got, 2) })
	q.Schedule(nil)

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	if n := q.Drain(); n != 3 {
		t.Errorf("Drain() = %d, want 3", n)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if q.Ran() != 3 {
		t.Errorf("Ran() = %d, want 3", q.Ran())
	}
}

func TestQueueNestedDrainIsNoop(t *testing.T) {
	q := NewQueue()
	inner := -1
	q.Schedule(func() { inner = q.Drain() })
	q.Drain()
	if inner != 0 {
		t.Errorf("nested Drain() = %d, want 0", inner)
	}
}

func TestFuncAdapter(t *testing.T) {
	var ran bool
	var s Scheduler = Func(func(task func()) { task() })
	s.Schedule(func() { ran = true })
	if !ran {
		t.Error("Func scheduler did not run task")
	}
}

func TestLoopDrainsMicrotasksAfterEachMacrotask(t *testing.T) {
	l := NewLoop()
	var got []string
	l.Post(func() {
		got = append(got, "macro1")
		l.Schedule(func() { got = append(got, "micro1") })
	})
	l.Post(func() { got = append(got, "macro2") })

	l.RunPending()

	want := []string{"macro1", "micro1", "macro2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	ran := make(chan struct{})
	l.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted task never ran")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
