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

package headers

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v1"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

// Keys used in the stream header.
const (
	XResolution = "ResX"
	YResolution = "ResY"
	FPS         = "FPS"
	FrameSize   = "FrameSize"
	Brand       = "Brand"
	Model       = "Model"
	BaudRate    = "BaudRate"
)

// HeaderInfo describes the sensor at the start of a frame stream.
type HeaderInfo struct {
	resX      int
	resY      int
	fps       int
	framesize int
	brand     string
	model     string
	baudRate  int
}

// New returns the header for a 32x24 sensor producing frames of
// frameSize bytes at fps, linked at baudRate.
func New(fps, frameSize, baudRate int) *HeaderInfo {
	return &HeaderInfo{
		resX:      frame.Cols,
		resY:      frame.Rows,
		fps:       fps,
		framesize: frameSize,
		brand:     "melexis",
		model:     "mlx90640",
		baudRate:  baudRate,
	}
}

func (h *HeaderInfo) ResX() int {
	return h.resX
}

func (h *HeaderInfo) ResY() int {
	return h.resY
}

func (h *HeaderInfo) FPS() int {
	return h.fps
}

// FrameSize returns the number of bytes in each frame packet.
func (h *HeaderInfo) FrameSize() int {
	return h.framesize
}

// Model returns the sensor model.
func (h *HeaderInfo) Model() string {
	return h.model
}

// Brand returns the sensor brand.
func (h *HeaderInfo) Brand() string {
	return h.brand
}

// BaudRate returns the speed the sensor link settled on.
func (h *HeaderInfo) BaudRate() int {
	return h.baudRate
}

// Write sends the header as YAML followed by a blank line.
func (h *HeaderInfo) Write(w io.Writer) error {
	out, err := yaml.Marshal(map[string]interface{}{
		XResolution: h.resX,
		YResolution: h.resY,
		FPS:         h.fps,
		FrameSize:   h.framesize,
		Brand:       h.brand,
		Model:       h.model,
		BaudRate:    h.baudRate,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

func ReadHeaderInfo(reader *bufio.Reader) (*HeaderInfo, error) {
	var buf bytes.Buffer
	for {
		line, err := reader.ReadString(byte('\n'))
		if err != nil {
			return nil, err
		}
		if strings.Trim(line, " ") == "\n" {
			break
		}
		buf.WriteString(line)
	}
	h := make(map[string]interface{})
	err := yaml.Unmarshal(buf.Bytes(), &h)
	if err != nil {
		return nil, err
	}

	return &HeaderInfo{
		resX:      toInt(h[XResolution]),
		resY:      toInt(h[YResolution]),
		fps:       toInt(h[FPS]),
		framesize: toInt(h[FrameSize]),
		brand:     toStr(h[Brand]),
		model:     toStr(h[Model]),
		baudRate:  toInt(h[BaudRate]),
	}, nil
}

func toInt(v interface{}) int {
	out, ok := v.(int)
	if !ok {
		return 0
	}
	return out
}

func toStr(v interface{}) string {
	out, ok := v.(string)
	if !ok {
		return ""
	}
	return out
}
