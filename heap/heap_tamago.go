// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package heap

import (
	"runtime"
)

func init() {
	memRegionFn = runtime.MemRegion
}
