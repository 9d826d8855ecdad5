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

package throttle

import (
	"log"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
	"github.com/juju/ratelimit"
)

// Event types reported by the daemon.
const (
	SyntheticEvent  = "mlx-uart-synthetic"
	LinkSilentEvent = "mlx-uart-link-silent"
)

// EventSink delivers an event to the event reporter.
type EventSink func(eventclient.Event) error

func NewEventReporter(config Config) *EventReporter {
	return NewEventReporterWithClock(config, eventclient.AddEvent, new(realClock))
}

func NewEventReporterWithClock(config Config, sink EventSink, clock ratelimit.Clock) *EventReporter {
	return &EventReporter{
		config:  config,
		sink:    sink,
		clock:   clock,
		buckets: make(map[string]*ratelimit.Bucket),
	}
}

// EventReporter queues device events, dropping them if one type is
// reported too often. A sensor that keeps failing would otherwise fill
// the event queue with identical events.
type EventReporter struct {
	config  Config
	sink    EventSink
	clock   ratelimit.Clock
	buckets map[string]*ratelimit.Bucket
	dropped map[string]int
}

// Report sends an event of the given type unless that type has been
// throttled. It returns whether the event was sent.
func (r *EventReporter) Report(eventType string, details map[string]interface{}) bool {
	bucket := r.bucket(eventType)
	if bucket.TakeAvailable(1) == 0 {
		if r.dropped == nil {
			r.dropped = make(map[string]int)
		}
		r.dropped[eventType]++
		return false
	}

	if details == nil {
		details = make(map[string]interface{})
	}
	if n := r.dropped[eventType]; n > 0 {
		details["throttled"] = n
		delete(r.dropped, eventType)
	}
	event := eventclient.Event{
		Timestamp: r.clock.Now(),
		Type:      eventType,
		Details:   details,
	}
	if err := r.sink(event); err != nil {
		log.Printf("could not report %s event: %v", eventType, err)
		return false
	}
	return true
}

func (r *EventReporter) bucket(eventType string) *ratelimit.Bucket {
	b, ok := r.buckets[eventType]
	if !ok {
		b = ratelimit.NewBucketWithClock(r.config.Refill, r.config.BucketSize, r.clock)
		r.buckets[eventType] = b
	}
	return b
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
