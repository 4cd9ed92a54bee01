// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package spin provides a busy-wait mutual exclusion lock for state that is
// shared with hardware-event driven code, where blocking primitives are not
// available.
package spin

import (
	"runtime"
	"sync/atomic"
)

// Mutex is a lock acquired by busy-waiting. The zero value is an unlocked
// mutex.
//
// A holder must not block, sleep or wait on any other resource while the
// lock is held: the lock serializes hardware event dispatches, and a holder
// that never reaches Release stalls every future dispatch permanently.
type Mutex struct {
	state uint32
}

// Acquire busy-waits until the lock is held by the caller. Any attempt to
// re-acquire a lock already held by the current task deadlocks.
func (m *Mutex) Acquire() {
	for !m.TryToAcquire() {
		runtime.Gosched()
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock
// was acquired.
func (m *Mutex) TryToAcquire() bool {
	return atomic.SwapUint32(&m.state, 1) == 0
}

// Release relinquishes a held lock. Calling Release while the lock is free
// has no effect.
func (m *Mutex) Release() {
	atomic.StoreUint32(&m.state, 0)
}
