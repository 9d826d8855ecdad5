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

package capture

import (
	"fmt"
	"time"

	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/mlx-uart/decode"
	"github.com/TheCacophonyProject/mlx-uart/link"
)

const DefaultCaptureWindow = 5 * time.Second

// Window collects bytes from a link for a bounded time.
type Window struct {
	link    link.Link
	decoder decode.Decoder
	clock   ratelimit.Clock
}

func NewWindow(l link.Link, decoder decode.Decoder) *Window {
	return NewWindowWithClock(l, decoder, SystemClock)
}

func NewWindowWithClock(l link.Link, decoder decode.Decoder, clock ratelimit.Clock) *Window {
	return &Window{
		link:    l,
		decoder: decoder,
		clock:   clock,
	}
}

// Capture reads from the link until duration has passed or the buffer
// is full. With earlyStop it also finishes as soon as the bytes so far
// hold a complete protocol frame. The returned buffer may be short or
// empty; an error is only returned when the link itself fails, along
// with whatever was read before the failure.
func (w *Window) Capture(duration time.Duration, earlyStop bool) (*Buffer, error) {
	buf := NewBuffer()
	chunk := make([]byte, 512)
	checked := 0
	deadline := w.clock.Now().Add(duration)

	for w.clock.Now().Before(deadline) && !buf.Full() {
		n, err := w.link.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			return buf, fmt.Errorf("error reading from sensor: %v", err)
		}

		if earlyStop && buf.Len() >= decode.EarlyStopSize && buf.Len() > checked {
			checked = buf.Len()
			if w.decoder.Found(buf.Bytes()) {
				break
			}
		}
		w.clock.Sleep(PollInterval)
	}
	return buf, nil
}
