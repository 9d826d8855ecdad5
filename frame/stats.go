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

package frame

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Plausibility limits in degrees Celsius. A frame whose coldest pixel
// is not above MinPlausible, whose hottest pixel is not below
// MaxPlausible, or whose spread is not above MinSpread is treated as
// meaningless data.
const (
	MinPlausible = -55.0
	MaxPlausible = 360.0
	MinSpread    = 0.5
)

// Plausible applies the plausibility gate to a set of samples.
func Plausible(pixels []float64) bool {
	if len(pixels) == 0 {
		return false
	}
	lo := floats.Min(pixels)
	hi := floats.Max(pixels)
	return lo > MinPlausible && hi < MaxPlausible && hi-lo > MinSpread
}

// Stats summarises a frame for logging and the D-Bus service.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	Centre float64
}

// Stats computes the summary statistics of the frame. The centre is the
// pixel at (Cols/2, Rows/2).
func (f *Frame) Stats() Stats {
	pix := f.Pixels[:]
	return Stats{
		Min:    floats.Min(pix),
		Max:    floats.Max(pix),
		Mean:   stat.Mean(pix, nil),
		Centre: f.At(Cols/2, Rows/2),
	}
}
