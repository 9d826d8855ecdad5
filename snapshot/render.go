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

package snapshot

import (
	"image"
	"image/color"
	"math"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

// Heatmap draws f scaled up by scale, coldest pixel blue through green
// to the hottest in red.
func Heatmap(f *frame.Frame, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	stats := f.Stats()
	img := image.NewRGBA(image.Rect(0, 0, frame.Cols*scale, frame.Rows*scale))
	for y := 0; y < frame.Rows; y++ {
		for x := 0; x < frame.Cols; x++ {
			c := Colour(normalise(f.At(x, y), stats.Min, stats.Max))
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// Colour maps t in [0, 1] onto the blue, green, red scale.
func Colour(t float64) color.RGBA {
	var r, g, b float64
	if t < 0.5 {
		g = t * 2
		b = 1 - g
	} else {
		r = t*2 - 1
		g = 1 - r
	}
	return color.RGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
}

// Raw stores f unnormalised, one pixel per sample, in hundredths of a
// kelvin.
func Raw(f *frame.Frame) *image.Gray16 {
	g16 := image.NewGray16(image.Rect(0, 0, frame.Cols, frame.Rows))
	for y := 0; y < frame.Rows; y++ {
		for x := 0; x < frame.Cols; x++ {
			g16.SetGray16(x, y, color.Gray16{Y: CentiKelvin(f.At(x, y))})
		}
	}
	return g16
}

// CentiKelvin converts Celsius to hundredths of a kelvin, clamped to
// what fits in 16 bits.
func CentiKelvin(c float64) uint16 {
	v := math.Round((c + frame.KelvinOffset) * 100)
	return uint16(math.Max(0, math.Min(math.MaxUint16, v)))
}
