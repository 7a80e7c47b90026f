package perkey

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDo_SequentialPerKey(t *testing.T) {
	s := New[string]()
	defer s.Close()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			_ = s.Do("obj", func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if len(order) != 100 {
		t.Fatalf("expected 100 tasks to run, got %d", len(order))
	}
}

func TestDo_ReturnsTaskError(t *testing.T) {
	s := New[string]()
	defer s.Close()

	want := errors.New("boom")
	err := s.Do("k", func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestDo_DifferentKeysRunConcurrently(t *testing.T) {
	s := New[string]()
	defer s.Close()

	aInB := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.Do("a", func() error {
			close(aInB)
			<-done
			return nil
		})
	}()

	<-aInB
	// Key "b" must not be blocked by the in-flight task for "a".
	err := s.Do("b", func() error { return nil })
	close(done)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoContext_Cancelled(t *testing.T) {
	s := New[string]()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.DoContext(ctx, "k", func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClose_RejectsNewWork(t *testing.T) {
	s := New[string]()
	s.Close()

	if err := s.Do("k", func() error { return nil }); !errors.Is(err, ErrSchedulerClosed) {
		t.Errorf("expected ErrSchedulerClosed, got %v", err)
	}
}
