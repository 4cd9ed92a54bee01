// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package vmm

import (
	"github.com/golCMKL/pong/cpu"
)

func init() {
	flushFn = cpu.FlushTLBEntry
}

// Active returns page table access to the hierarchy currently installed in
// the hardware page table base register, reached through the argument
// offset mapping.
func Active(offset uint64) *PageTables {
	return New(offset, cpu.PageTableRoot())
}
