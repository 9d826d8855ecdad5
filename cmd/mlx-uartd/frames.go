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

package main

import (
	"errors"
	"log"

	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/decode"
	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/loglimiter"
	"github.com/TheCacophonyProject/mlx-uart/snapshot"
	"github.com/TheCacophonyProject/mlx-uart/throttle"
)

// maxSilentCycles is how many empty capture windows in a row are
// tolerated before the sensor is restarted and the baud rate probed
// again.
const maxSilentCycles = 3

var errLinkSilent = errors.New("no data from sensor")

type framePublisher interface {
	Publish(*frame.Frame) error
}

type eventReporter interface {
	Report(eventType string, details map[string]interface{}) bool
}

type rawSaver interface {
	Write([]byte) (string, error)
}

// frameHandler deals with the outcome of each capture cycle.
type frameHandler struct {
	publisher framePublisher
	events    eventReporter
	raw       rawSaver
	snap      *snapshot.Snapshotter
	limiter   *loglimiter.LogLimiter
	verbose   bool
	baudRate  int

	silentCycles int
}

// handle publishes res and records anything unusual about it. It
// returns errLinkSilent once the link has been quiet for too long.
func (h *frameHandler) handle(res frame.Result, buf *capture.Buffer) error {
	h.snap.Update(res)
	if err := h.publisher.Publish(&res.Frame); err != nil {
		h.limiter.Printf("failed to publish frame: %v", err)
	}

	switch res.Status {
	case frame.Decoded:
		h.silentCycles = 0
		h.logDecoded(res.Frame, buf)
		return nil
	case frame.Synthetic:
		return h.handleSynthetic(buf)
	}
	return nil
}

func (h *frameHandler) logDecoded(f frame.Frame, buf *capture.Buffer) {
	if f.Source != frame.SourceProtocol {
		h.limiter.Printf("decoded frame from %s data", f.Source)
	}
	if f.Source == frame.SourceProtocol && !f.ChecksumValid {
		h.limiter.Print("frame checksum mismatch")
	}
	if layout, ok := decode.LayoutFor(f.Layout); ok && layout.Experimental {
		h.limiter.Printf("frame uses experimental %d byte layout", f.Layout)
	}
	if f.KelvinCorrected {
		h.limiter.Print("frame values were in kelvin")
	}
	if h.verbose {
		s := f.Stats()
		log.Printf("%s frame from %d bytes: min=%.2f max=%.2f mean=%.2f centre=%.2f",
			f.Source, buf.Len(), s.Min, s.Max, s.Mean, s.Centre)
	}
}

func (h *frameHandler) handleSynthetic(buf *capture.Buffer) error {
	if buf.Len() == 0 {
		h.silentCycles++
		h.limiter.Printf("sensor link silent at %d baud, using synthetic frame", h.baudRate)
		h.events.Report(throttle.LinkSilentEvent, map[string]interface{}{
			"baud-rate": h.baudRate,
		})
		if h.silentCycles >= maxSilentCycles {
			h.silentCycles = 0
			return errLinkSilent
		}
		return nil
	}

	h.silentCycles = 0
	h.limiter.Printf("no frame found in captured data, using synthetic frame")
	h.events.Report(throttle.SyntheticEvent, map[string]interface{}{
		"baud-rate": h.baudRate,
		"bytes":     buf.Len(),
	})
	if h.verbose {
		log.Printf("captured %d bytes:\n%s", buf.Len(), buf.Dump())
	}
	if h.raw != nil {
		name, err := h.raw.Write(buf.Bytes())
		if err != nil {
			h.limiter.Printf("failed to save raw capture: %v", err)
		} else if h.verbose {
			log.Printf("raw capture saved to %s", name)
		}
	}
	return nil
}
