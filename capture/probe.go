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
	"log"
	"time"

	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/mlx-uart/link"
)

const (
	DefaultBaudRate    = 9600
	DefaultProbeWindow = 500 * time.Millisecond
)

// DefaultBaudRates are the rates the sensor module is known to use.
var DefaultBaudRates = []int{9600, 115200, 460800}

// BaudCandidate is how much traffic was seen at one rate.
type BaudCandidate struct {
	Rate          int
	BytesObserved int
}

// Probe listens at each rate in turn and returns the one that delivered
// the most bytes. Ties go to the earlier rate. When nothing arrives at
// any rate defaultRate is returned. The link is left at the last rate
// tried, so callers must switch it to the result.
func Probe(l link.Link, rates []int, window time.Duration, defaultRate int, clock ratelimit.Clock) (int, []BaudCandidate) {
	candidates := make([]BaudCandidate, 0, len(rates))
	best := -1
	for _, rate := range rates {
		c := BaudCandidate{Rate: rate}
		if err := l.SetBaudRate(rate); err != nil {
			log.Printf("baud probe: %v", err)
		} else {
			if err := l.ResetInput(); err != nil {
				log.Printf("baud probe: failed to reset input at %d: %v", rate, err)
			}
			n, err := countBytes(l, window, clock)
			if err != nil {
				log.Printf("baud probe: read failed at %d: %v", rate, err)
			}
			c.BytesObserved = n
		}
		candidates = append(candidates, c)
		if c.BytesObserved > 0 && (best < 0 || c.BytesObserved > candidates[best].BytesObserved) {
			best = len(candidates) - 1
		}
	}

	if best < 0 {
		return defaultRate, candidates
	}
	return candidates[best].Rate, candidates
}

func countBytes(l link.Link, window time.Duration, clock ratelimit.Clock) (int, error) {
	buf := make([]byte, 256)
	total := 0
	deadline := clock.Now().Add(window)
	for clock.Now().Before(deadline) {
		n, err := l.Read(buf)
		total += n
		if err != nil {
			return total, err
		}
		clock.Sleep(PollInterval)
	}
	return total, nil
}
