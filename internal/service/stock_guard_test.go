package service

import (
	"sync"
	"testing"
	"time"
)

func TestStockGuardSerializesSameLine(t *testing.T) {
	guard := newStockGuard()

	unlock := guard.Lock(1, 0)
	acquired := make(chan struct{})
	go func() {
		second := guard.Lock(1, 0)
		close(acquired)
		second()
	}()

	select {
	case <-acquired:
		t.Fatalf("second lock acquired while first still held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("second lock never acquired after release")
	}
}

func TestStockGuardIndependentLines(t *testing.T) {
	guard := newStockGuard()

	unlock := guard.Lock(1, 0)
	defer unlock()

	done := make(chan struct{})
	go func() {
		other := guard.Lock(2, 0)
		other()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("unrelated line blocked by held lock")
	}
}

func TestLockAllNoDeadlockOnOverlap(t *testing.T) {
	guard := newStockGuard()
	forward := []string{stockKey(1, 0), stockKey(2, 0), stockKey(3, 0)}
	backward := []string{stockKey(3, 0), stockKey(2, 0), stockKey(1, 0)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := guard.LockAll(forward)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := guard.LockAll(backward)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("overlapping LockAll calls deadlocked")
	}
}

func TestLockAllCollapsesDuplicates(t *testing.T) {
	guard := newStockGuard()
	unlock := guard.LockAll([]string{stockKey(1, 0), stockKey(1, 0), stockKey(1, 0)})
	unlock()

	// A second pass over the same key must succeed once released.
	unlock = guard.LockAll([]string{stockKey(1, 0)})
	unlock()
}
