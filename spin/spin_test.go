// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spin

import (
	"sync"
	"testing"
)

func TestMutex(t *testing.T) {
	var (
		mu         Mutex
		wg         sync.WaitGroup
		numWorkers = 10
		counter    int
	)

	mu.Acquire()

	if mu.TryToAcquire() {
		t.Error("expected TryToAcquire to return false while the lock is held")
	}

	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		go func() {
			mu.Acquire()
			counter++
			mu.Release()
			wg.Done()
		}()
	}

	mu.Release()
	wg.Wait()

	if counter != numWorkers {
		t.Errorf("expected %d lock-guarded increments, got %d", numWorkers, counter)
	}

	if !mu.TryToAcquire() {
		t.Error("expected TryToAcquire to succeed once all workers released the lock")
	}
}

func TestMutexReleaseWhenFree(t *testing.T) {
	var mu Mutex

	mu.Release()

	if !mu.TryToAcquire() {
		t.Error("expected a released zero-value lock to be acquirable")
	}
}
