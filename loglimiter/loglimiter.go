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

package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// New returns a new LogLimiter with the configured minimum log interval.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
		lastSeen: make(map[string]time.Time),
	}
}

// LogLimiter suppresses a log message if that same message was logged
// within some time interval. Each distinct message has its own
// interval, so messages that alternate are limited independently.
type LogLimiter struct {
	interval   time.Duration
	nowFunc    func() time.Time
	lastSeen   map[string]time.Time
	suppressed map[string]int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	now := limiter.nowFunc()
	if last, ok := limiter.lastSeen[s]; ok && now.Sub(last) < limiter.interval {
		if limiter.suppressed == nil {
			limiter.suppressed = make(map[string]int)
		}
		limiter.suppressed[s]++
		return
	}

	if n := limiter.suppressed[s]; n > 0 {
		log.Printf("%s (repeated %d times)", s, n+1)
		delete(limiter.suppressed, s)
	} else {
		log.Print(s)
	}
	limiter.lastSeen[s] = now
	limiter.expire(now)
}

// expire forgets messages that can no longer be suppressed.
func (limiter *LogLimiter) expire(now time.Time) {
	for s, last := range limiter.lastSeen {
		if now.Sub(last) >= limiter.interval && limiter.suppressed[s] == 0 {
			delete(limiter.lastSeen, s)
		}
	}
}
