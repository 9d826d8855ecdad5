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

import (
	"encoding/binary"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

// The sensor's fixed-point scale is undocumented. Hundredths of a
// degree is tried first, then sixteenths.
const (
	primaryScale   = 100.0
	secondaryScale = 16.0

	scaleMin = -60.0
	scaleMax = 400.0
)

// PixelBlockSize is the number of bytes holding one frame of pixels.
const PixelBlockSize = frame.Pixels * 2

// Scale converts a raw 16-bit magnitude to degrees Celsius.
func Scale(raw uint16) float64 {
	c := float64(raw) / primaryScale
	if c < scaleMin || c > scaleMax {
		c = float64(raw) / secondaryScale
	}
	return c
}

// Pixel decodes a big-endian pixel from two consecutive bytes.
func Pixel(hi, lo byte) float64 {
	return Scale(uint16(hi)<<8 | uint16(lo))
}

// pixels decodes a PixelBlockSize block into out using the given byte
// order.
func pixels(block []byte, order binary.ByteOrder, out *[frame.Pixels]float64) {
	for i := range out {
		out[i] = Scale(order.Uint16(block[i*2:]))
	}
}

// kelvinToCelsius shifts every value by the Kelvin offset, in place.
func kelvinToCelsius(values []float64) {
	for i := range values {
		values[i] -= frame.KelvinOffset
	}
}
