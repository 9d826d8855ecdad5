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
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

const (
	// binaryAlign is the granularity a headerless binary dump is
	// expected to arrive in.
	binaryAlign = 256

	// hexTextMinLen is the buffer length above which the hex decoder
	// is tried even without a "0x" in the data.
	hexTextMinLen = 1000
	hexDigits     = 4

	// MinTextSamples is how many samples a text decoder must find
	// before its output is accepted.
	MinTextSamples = 400

	textMin = -50.0
	textMax = 150.0
)

var hexPrefix = []byte("0x")

// BinaryGuess treats the start of a headerless buffer as a raw pixel
// block, trying big endian and then little endian.
func BinaryGuess(buf []byte) (frame.Frame, bool) {
	if len(buf) < PixelBlockSize || len(buf)%binaryAlign != 0 {
		return frame.Frame{}, false
	}
	block := buf[:PixelBlockSize]

	f := frame.Frame{Source: frame.SourceBinaryBigEndian}
	pixels(block, binary.BigEndian, &f.Pixels)
	if frame.Plausible(f.Pixels[:]) {
		return f, true
	}

	f = frame.Frame{Source: frame.SourceBinaryLittleEndian}
	pixels(block, binary.LittleEndian, &f.Pixels)
	if frame.Plausible(f.Pixels[:]) {
		return f, true
	}
	return frame.Frame{}, false
}

// HexText extracts "0xNNNN" tagged values in centi-kelvin.
func HexText(buf []byte) (frame.Frame, bool) {
	if !bytes.Contains(buf, hexPrefix) && len(buf) <= hexTextMinLen {
		return frame.Frame{}, false
	}

	samples := make([]float64, 0, frame.Pixels)
	for i := 0; i+len(hexPrefix)+hexDigits <= len(buf) && len(samples) < frame.Pixels; i++ {
		if buf[i] != '0' || buf[i+1] != 'x' {
			continue
		}
		digits := string(buf[i+2 : i+2+hexDigits])
		v, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			continue
		}
		samples = append(samples, float64(v)/100-frame.KelvinOffset)
		i += len(hexPrefix) + hexDigits - 1
	}
	return textFrame(samples, frame.SourceHexText)
}

// DelimitedText extracts plain Celsius values separated by commas,
// spaces or newlines.
func DelimitedText(buf []byte) (frame.Frame, bool) {
	tokens := strings.FieldsFunc(string(buf), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n'
	})

	samples := make([]float64, 0, frame.Pixels)
	for _, tok := range tokens {
		if len(samples) == frame.Pixels {
			break
		}
		tok = strings.TrimSpace(tok)
		if tok == "" || tok[0] < '0' || tok[0] > '9' {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		if v > textMin && v < textMax {
			samples = append(samples, v)
		}
	}
	return textFrame(samples, frame.SourceDelimitedText)
}

// textFrame builds a frame from extracted samples. Pixels the text did
// not cover are filled with the mean of the samples found.
func textFrame(samples []float64, src frame.Source) (frame.Frame, bool) {
	if len(samples) < MinTextSamples {
		return frame.Frame{}, false
	}
	f := frame.Frame{Source: src}
	n := copy(f.Pixels[:], samples)
	if n < frame.Pixels {
		fill := stat.Mean(samples, nil)
		for i := n; i < frame.Pixels; i++ {
			f.Pixels[i] = fill
		}
	}
	return f, true
}
