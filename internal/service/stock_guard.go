package service

import (
	"fmt"
	"sort"
	"sync"
)

// stockGuard serializes stock mutations per (product, variant). Orders
// touching different lines proceed in parallel; orders touching the same line
// queue behind one another.
type stockGuard struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStockGuard() *stockGuard {
	return &stockGuard{locks: make(map[string]*sync.Mutex)}
}

func stockKey(productID, variantID uint) string {
	return fmt.Sprintf("%d:%d", productID, variantID)
}

func (g *stockGuard) lockFor(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[key] = lock
	}
	return lock
}

// Lock acquires the mutex for one (product, variant) and returns the unlock
// function.
func (g *stockGuard) Lock(productID, variantID uint) func() {
	lock := g.lockFor(stockKey(productID, variantID))
	lock.Lock()
	return lock.Unlock
}

// LockAll acquires the mutexes for a set of lines in sorted key order so two
// orders covering overlapping lines can never deadlock. Duplicate keys are
// collapsed. Returns the unlock function, which releases in reverse order.
func (g *stockGuard) LockAll(keys []string) func() {
	unique := make(map[string]bool, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, key := range keys {
		if !unique[key] {
			unique[key] = true
			ordered = append(ordered, key)
		}
	}
	sort.Strings(ordered)

	locks := make([]*sync.Mutex, 0, len(ordered))
	for _, key := range ordered {
		lock := g.lockFor(key)
		lock.Lock()
		locks = append(locks, lock)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}
