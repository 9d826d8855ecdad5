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

// Package decode turns captured sensor bytes into temperature frames.
//
// The protocol frame is tried first. When no plausible protocol frame
// is found the buffer is handed to the fallback decoders in a fixed
// order: raw binary, hex-tagged text, then delimited text.
package decode

import (
	"github.com/TheCacophonyProject/mlx-uart/frame"
)

var fallbacks = []func([]byte) (frame.Frame, bool){
	BinaryGuess,
	HexText,
	DelimitedText,
}

// Decoder runs the full decoder chain over a buffer.
type Decoder struct {
	// StrictChecksum rejects protocol frames whose checksum doesn't
	// match.
	StrictChecksum bool
}

// Decode returns a Decoded result or, when nothing in buf could be
// interpreted, a NotFound result. Buffers shorter than MinBufferSize
// are not worth decoding. Decode does not modify buf.
func (d Decoder) Decode(buf []byte) frame.Result {
	if !Decodable(buf) {
		return frame.Result{Status: frame.NotFound}
	}
	if f, ok := Synchronize(buf, d.StrictChecksum); ok {
		return frame.NewDecoded(f)
	}
	for _, fallback := range fallbacks {
		if f, ok := fallback(buf); ok {
			return frame.NewDecoded(f)
		}
	}
	return frame.Result{Status: frame.NotFound}
}

// Decodable reports whether buf holds enough data to try decoding.
func Decodable(buf []byte) bool {
	return len(buf) >= MinBufferSize
}

// Found reports whether buf already contains a complete protocol
// frame. Captures use it to stop early.
func (d Decoder) Found(buf []byte) bool {
	_, ok := Synchronize(buf, d.StrictChecksum)
	return ok
}
