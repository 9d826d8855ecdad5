// mlx-uart - decode thermal frames from a UART sensor module
//  Copyright (C) 2026, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package capture

import "encoding/hex"

// MaxBufferSize is the most a single capture window keeps.
const MaxBufferSize = 8192

// Buffer holds the bytes of one capture window. Bytes past
// MaxBufferSize are dropped.
type Buffer struct {
	data []byte
}

func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, MaxBufferSize)}
}

// BufferFrom wraps previously captured bytes, truncating them to
// MaxBufferSize.
func BufferFrom(p []byte) *Buffer {
	b := NewBuffer()
	b.Write(p)
	return b
}

// Write appends as much of p as fits. It always reports success so the
// Buffer can sit behind an io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	room := MaxBufferSize - len(b.data)
	if len(p) > room {
		b.data = append(b.data, p[:room]...)
	} else {
		b.data = append(b.data, p...)
	}
	return len(p), nil
}

// Bytes returns the captured bytes. Callers must not modify them.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) Full() bool {
	return len(b.data) >= MaxBufferSize
}

// Dump renders the buffer as hex with an ASCII column.
func (b *Buffer) Dump() string {
	return hex.Dump(b.data)
}
