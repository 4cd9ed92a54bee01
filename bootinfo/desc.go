// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bootinfo

import (
	"bytes"
	"encoding/binary"
)

const align = 8

func marshalBinary(data any) (buf []byte, err error) {
	b := new(bytes.Buffer)
	err = binary.Write(b, binary.LittleEndian, data)
	return b.Bytes(), err
}

func unmarshalBinary(buf []byte, data any) (err error) {
	_, err = binary.Decode(buf, binary.LittleEndian, data)
	return
}

// decode fills data with the structure present at the argument physical
// address.
func decode(data any, addr uint64) (err error) {
	t, err := marshalBinary(data)

	if err != nil {
		return
	}

	buf, err := decodeBuffer(addr, len(t))

	if err != nil {
		return
	}

	return unmarshalBinary(buf, data)
}
