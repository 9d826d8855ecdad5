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
	"encoding/binary"
	"fmt"
	"math"
)

// EncodedSize is the number of bytes produced by MarshalBinary: the
// pixels and aux temperature as float32, a flags byte, a source byte
// and the declared layout length.
const EncodedSize = Pixels*4 + 4 + 1 + 1 + 2

const (
	flagChecksumValid = 1 << iota
	flagHasAux
	flagSynthetic
	flagKelvinCorrected
)

// MarshalBinary encodes the frame in the format written to the frame
// output socket. All multi-byte values are little endian.
func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EncodedSize)
	for i, v := range f.Pixels {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	off := Pixels * 4
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(f.AuxTemperature)))
	off += 4

	var flags byte
	if f.ChecksumValid {
		flags |= flagChecksumValid
	}
	if f.HasAuxTemperature {
		flags |= flagHasAux
	}
	if f.Source == SourceSynthetic {
		flags |= flagSynthetic
	}
	if f.KelvinCorrected {
		flags |= flagKelvinCorrected
	}
	buf[off] = flags
	buf[off+1] = byte(f.Source)
	binary.LittleEndian.PutUint16(buf[off+2:], uint16(f.Layout))
	return buf, nil
}

// UnmarshalBinary decodes a frame written by MarshalBinary. Pixel
// values lose precision to float32.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) != EncodedSize {
		return fmt.Errorf("encoded frame is %d bytes, expected %d", len(data), EncodedSize)
	}
	for i := range f.Pixels {
		f.Pixels[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	off := Pixels * 4
	f.AuxTemperature = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
	off += 4

	flags := data[off]
	f.ChecksumValid = flags&flagChecksumValid != 0
	f.HasAuxTemperature = flags&flagHasAux != 0
	f.KelvinCorrected = flags&flagKelvinCorrected != 0
	f.Source = Source(data[off+1])
	f.Layout = int(binary.LittleEndian.Uint16(data[off+2:]))
	return nil
}
