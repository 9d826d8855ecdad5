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

package acquire

import (
	"time"

	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/decode"
	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/synthetic"
)

type Config struct {
	CaptureWindow  time.Duration
	EarlyStop      bool
	StrictChecksum bool
}

// Counts tallies the outcome of every cycle run so far.
type Counts struct {
	Cycles    int
	Decoded   int
	Synthetic int
	Silent    int
}

// Acquirer runs capture and decode cycles against one link.
type Acquirer struct {
	conf    Config
	window  *capture.Window
	decoder decode.Decoder
	gen     *synthetic.Generator
	counts  Counts
}

// New returns an Acquirer reading through window. window should have
// been built with the same checksum policy as conf.
func New(conf Config, window *capture.Window, gen *synthetic.Generator) *Acquirer {
	return &Acquirer{
		conf:    conf,
		window:  window,
		decoder: decode.Decoder{StrictChecksum: conf.StrictChecksum},
		gen:     gen,
	}
}

// Next captures one window and decodes it. When nothing decodes, a
// synthetic frame is returned and marked as such. The raw buffer is
// returned for diagnostics. An error means the link failed and should
// be reopened; the result is NotFound in that case.
func (a *Acquirer) Next() (frame.Result, *capture.Buffer, error) {
	buf, err := a.window.Capture(a.conf.CaptureWindow, a.conf.EarlyStop)
	if err != nil {
		return frame.Result{Status: frame.NotFound}, buf, err
	}
	return a.Decode(buf), buf, nil
}

// Decode runs the decoder chain over an already captured buffer,
// falling back to a synthetic frame.
func (a *Acquirer) Decode(buf *capture.Buffer) frame.Result {
	a.counts.Cycles++
	if buf.Len() == 0 {
		a.counts.Silent++
	}

	res := a.decoder.Decode(buf.Bytes())
	if res.Status == frame.Decoded {
		a.counts.Decoded++
		return res
	}
	a.counts.Synthetic++
	return a.gen.Result()
}

func (a *Acquirer) Counts() Counts {
	return a.counts
}
