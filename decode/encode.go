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
	"fmt"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

// Encode builds a protocol frame the way the sensor sends it, with a
// correct checksum. raw holds the pixel values in hundredths of a
// degree. aux is ignored by layouts without an aux temperature.
func Encode(declared int, raw []uint16, aux uint16) ([]byte, error) {
	layout, ok := LayoutFor(declared)
	if !ok {
		return nil, fmt.Errorf("unsupported frame length %d", declared)
	}
	if len(raw) != frame.Pixels {
		return nil, fmt.Errorf("got %d pixels, expected %d", len(raw), frame.Pixels)
	}

	buf := make([]byte, 0, headerSize+declared+checksumSize)
	buf = append(buf, marker0, marker1)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(declared))
	for _, v := range raw {
		buf = binary.BigEndian.AppendUint16(buf, v)
	}
	extra := declared - PixelBlockSize
	if layout.HasAuxTemperature {
		buf = binary.BigEndian.AppendUint16(buf, aux)
		extra -= auxSize
	}
	buf = append(buf, make([]byte, extra)...)
	return binary.BigEndian.AppendUint16(buf, Checksum(buf)), nil
}
