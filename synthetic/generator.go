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

package synthetic

import (
	"math"
	"math/rand"
	"time"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

// Generator makes placeholder frames: a warm spot in the middle of a
// room-temperature background, with a little noise on every pixel.
type Generator struct {
	BackgroundTemp float64
	SpotTemp       float64
	SpotRadius     float64
	Noise          float64
	rand           *rand.Rand
}

// New returns a Generator seeded from the clock.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator whose output is repeatable.
func NewWithSeed(seed int64) *Generator {
	return &Generator{
		BackgroundTemp: 25,
		SpotTemp:       10,
		SpotRadius:     8,
		Noise:          1,
		rand:           rand.New(rand.NewSource(seed)),
	}
}

// Frame returns the next placeholder frame, already tagged synthetic.
func (g *Generator) Frame() frame.Frame {
	f := frame.Frame{Source: frame.SourceSynthetic}
	cx := float64(frame.Cols / 2)
	cy := float64(frame.Rows / 2)
	for y := 0; y < frame.Rows; y++ {
		for x := 0; x < frame.Cols; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			noise := (g.rand.Float64()*2 - 1) * g.Noise
			f.Pixels[y*frame.Cols+x] = g.BackgroundTemp + g.SpotTemp*math.Exp(-d/g.SpotRadius) + noise
		}
	}
	return f
}

// Result wraps the next placeholder frame as a Synthetic result.
func (g *Generator) Result() frame.Result {
	return frame.NewSynthetic(g.Frame())
}
