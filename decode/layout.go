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

package decode

// Wire format:
//
//	5A 5A | len lo, len hi | 1536 pixel bytes (BE) | [aux BE] | [2 unknown] | checksum BE
//
// The checksum is the 16-bit sum of every byte from the marker up to
// the checksum itself.
const (
	marker0 = 0x5A
	marker1 = 0x5A

	markerSize   = 2
	lengthSize   = 2
	auxSize      = 2
	checksumSize = 2

	headerSize = markerSize + lengthSize

	// MinFrameSize is the smallest complete frame on the wire.
	MinFrameSize = headerSize + PixelBlockSize + checksumSize

	// EarlyStopSize is the buffer length at which a capture starts
	// looking for a complete frame: room for the largest aux and
	// checksum tail.
	EarlyStopSize = headerSize + PixelBlockSize + 4

	// MinBufferSize is the shortest buffer worth decoding at all.
	MinBufferSize = 20
)

// Layout is one declared-length hypothesis.
type Layout struct {
	DeclaredLength    int
	HasAuxTemperature bool
	// Experimental marks a layout whose trailing fields are not
	// understood. Its checksum is taken to cover the two extra bytes.
	Experimental bool
}

// Layouts lists the only declared lengths the sensor is known to send.
var Layouts = []Layout{
	{DeclaredLength: 1536},
	{DeclaredLength: 1538, HasAuxTemperature: true},
	{DeclaredLength: 1540, HasAuxTemperature: true, Experimental: true},
}

// LayoutFor returns the layout matching a declared length.
func LayoutFor(declared int) (Layout, bool) {
	for _, l := range Layouts {
		if l.DeclaredLength == declared {
			return l, true
		}
	}
	return Layout{}, false
}

// candidate is a frame hypothesis at one marker offset.
type candidate struct {
	markerOffset   int
	layout         Layout
	pixelOffset    int
	auxOffset      int // -1 when the layout has no aux field
	checksumOffset int
}

func newCandidate(offset int, l Layout) candidate {
	c := candidate{
		markerOffset:   offset,
		layout:         l,
		pixelOffset:    offset + headerSize,
		auxOffset:      -1,
		checksumOffset: offset + headerSize + l.DeclaredLength,
	}
	if l.HasAuxTemperature {
		c.auxOffset = c.pixelOffset + PixelBlockSize
	}
	return c
}

// end is the offset just past the candidate's checksum.
func (c candidate) end() int {
	return c.checksumOffset + checksumSize
}
