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

package link

import (
	"bytes"
	"errors"
	"sync"
)

var ErrClosed = errors.New("link closed")

// Scripted is a Link that plays back canned bytes. Each baud rate has its
// own stream which restarts from the beginning whenever that rate is
// selected. It stands in for the sensor when there is no hardware.
type Scripted struct {
	mu sync.Mutex

	// Streams holds the bytes the sensor appears to send at each rate.
	Streams map[int][]byte

	// Chunk limits how many bytes one Read returns. Zero means no limit.
	Chunk int

	// Loop replays the current stream forever.
	Loop bool

	// Pending is stale input that arrives before the stream and is
	// discarded by ResetInput.
	Pending []byte

	// SetBaudErrs makes SetBaudRate fail for the listed rates.
	SetBaudErrs map[int]error

	// ReadErr is returned by the next Read if set.
	ReadErr error

	Rate      int
	BaudCalls []int
	Resets    int
	Closed    bool

	written bytes.Buffer
	pos     int
}

// NewScripted returns a Scripted link starting at rate.
func NewScripted(rate int, streams map[int][]byte) *Scripted {
	return &Scripted{
		Streams: streams,
		Rate:    rate,
	}
}

func (s *Scripted) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Closed {
		return 0, ErrClosed
	}
	if s.ReadErr != nil {
		err := s.ReadErr
		s.ReadErr = nil
		return 0, err
	}
	if s.Chunk > 0 && len(p) > s.Chunk {
		p = p[:s.Chunk]
	}

	if len(s.Pending) > 0 {
		n := copy(p, s.Pending)
		s.Pending = s.Pending[n:]
		return n, nil
	}

	stream := s.Streams[s.Rate]
	if len(stream) == 0 {
		return 0, nil
	}
	if s.pos >= len(stream) {
		if !s.Loop {
			return 0, nil
		}
		s.pos = 0
	}
	n := copy(p, stream[s.pos:])
	s.pos += n
	return n, nil
}

func (s *Scripted) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Closed {
		return 0, ErrClosed
	}
	return s.written.Write(p)
}

func (s *Scripted) SetBaudRate(rate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.BaudCalls = append(s.BaudCalls, rate)
	if err := s.SetBaudErrs[rate]; err != nil {
		return err
	}
	s.Rate = rate
	s.pos = 0
	return nil
}

func (s *Scripted) ResetInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Resets++
	s.Pending = nil
	return nil
}

func (s *Scripted) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Closed = true
	return nil
}

// Written returns everything written to the link so far.
func (s *Scripted) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]byte(nil), s.written.Bytes()...)
}
