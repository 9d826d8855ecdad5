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

// Checksum returns the 16-bit wrapping sum of data.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// Synchronize scans buf for the first protocol frame that is complete
// and plausible. Every offset holding the marker is tried in order, so
// markers overlapping a rejected candidate are still considered. With
// strict set, a checksum mismatch rejects the candidate; otherwise it
// is only recorded in Frame.ChecksumValid.
func Synchronize(buf []byte, strict bool) (frame.Frame, bool) {
	if len(buf) < MinBufferSize {
		return frame.Frame{}, false
	}
	for s := 0; s <= len(buf)-MinFrameSize; s++ {
		if buf[s] != marker0 || buf[s+1] != marker1 {
			continue
		}
		declared := int(binary.LittleEndian.Uint16(buf[s+markerSize:]))
		layout, ok := LayoutFor(declared)
		if !ok {
			continue
		}
		if f, ok := validate(buf, newCandidate(s, layout), strict); ok {
			return f, true
		}
	}
	return frame.Frame{}, false
}

// validate decodes a candidate and checks its checksum and values.
func validate(buf []byte, c candidate, strict bool) (frame.Frame, bool) {
	if c.end() > len(buf) {
		// Probably a frame still arriving.
		return frame.Frame{}, false
	}

	f := frame.Frame{
		Source: frame.SourceProtocol,
		Layout: c.layout.DeclaredLength,
	}
	pixels(buf[c.pixelOffset:c.pixelOffset+PixelBlockSize], binary.BigEndian, &f.Pixels)
	if c.auxOffset >= 0 {
		f.AuxTemperature = Pixel(buf[c.auxOffset], buf[c.auxOffset+1])
		f.HasAuxTemperature = true
	}

	want := binary.BigEndian.Uint16(buf[c.checksumOffset:])
	f.ChecksumValid = Checksum(buf[c.markerOffset:c.checksumOffset]) == want
	if strict && !f.ChecksumValid {
		return frame.Frame{}, false
	}

	if frame.Plausible(f.Pixels[:]) {
		return f, true
	}
	kelvinToCelsius(f.Pixels[:])
	if f.HasAuxTemperature {
		f.AuxTemperature -= frame.KelvinOffset
	}
	f.KelvinCorrected = true
	if frame.Plausible(f.Pixels[:]) {
		return f, true
	}
	return frame.Frame{}, false
}
