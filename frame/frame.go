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

const (
	// Cols is the sensor width in pixels.
	Cols = 32
	// Rows is the sensor height in pixels.
	Rows = 24
	// Pixels is the number of temperature samples in every frame.
	Pixels = Cols * Rows

	// KelvinOffset converts between Kelvin and Celsius.
	KelvinOffset = 273.15
)

// Source describes which decoder produced a frame.
type Source uint8

const (
	SourceNone Source = iota
	SourceProtocol
	SourceBinaryBigEndian
	SourceBinaryLittleEndian
	SourceHexText
	SourceDelimitedText
	SourceSynthetic
)

var sourceNames = map[Source]string{
	SourceNone:               "none",
	SourceProtocol:           "protocol",
	SourceBinaryBigEndian:    "binary-be",
	SourceBinaryLittleEndian: "binary-le",
	SourceHexText:            "hex-text",
	SourceDelimitedText:      "delimited-text",
	SourceSynthetic:          "synthetic",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "unknown"
}

// Frame is one complete set of calibrated temperature samples in
// degrees Celsius, row-major, Cols wide and Rows high. Frames are
// passed by value and are never modified once returned by a decoder.
type Frame struct {
	Pixels            [Pixels]float64
	AuxTemperature    float64
	HasAuxTemperature bool
	ChecksumValid     bool
	KelvinCorrected   bool
	Source            Source
	// Layout is the declared length of the protocol frame this was
	// decoded from, or 0 for frames from other sources.
	Layout int
}

// At returns the temperature at column x, row y.
func (f *Frame) At(x, y int) float64 {
	return f.Pixels[y*Cols+x]
}

// Status tags the outcome of a decode attempt.
type Status int

const (
	NotFound Status = iota
	Decoded
	Synthetic
)

func (s Status) String() string {
	switch s {
	case Decoded:
		return "decoded"
	case Synthetic:
		return "synthetic"
	default:
		return "not-found"
	}
}

// Result is what a capture cycle produces. Frame is only meaningful
// when Status is not NotFound.
type Result struct {
	Status Status
	Frame  Frame
}

// Authoritative reports whether the frame came from real sensor data.
func (r Result) Authoritative() bool {
	return r.Status == Decoded
}

// NewDecoded wraps a frame produced by a real decoder.
func NewDecoded(f Frame) Result {
	return Result{Status: Decoded, Frame: f}
}

// NewSynthetic wraps placeholder data.
func NewSynthetic(f Frame) Result {
	f.Source = SourceSynthetic
	f.ChecksumValid = false
	return Result{Status: Synthetic, Frame: f}
}
