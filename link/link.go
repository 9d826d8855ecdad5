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
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// ReadTimeout bounds how long a single Read waits for data. A Read that
// times out returns 0 bytes and no error.
const ReadTimeout = 10 * time.Millisecond

// Link is a byte stream to the sensor whose speed can be changed.
type Link interface {
	io.ReadWriteCloser
	SetBaudRate(rate int) error
	// ResetInput discards anything the link received but nobody has
	// read yet.
	ResetInput() error
}

// Serial is a Link over a UART.
type Serial struct {
	path string
	port serial.Port
	rate int
}

// Open opens the serial port at path, 8N1 at the given rate.
func Open(path string, rate int) (*Serial, error) {
	port, err := serial.Open(path, mode(rate))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %v", path, err)
	}
	return &Serial{
		path: path,
		port: port,
		rate: rate,
	}, nil
}

func mode(rate int) *serial.Mode {
	return &serial.Mode{
		BaudRate: rate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

func (s *Serial) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *Serial) SetBaudRate(rate int) error {
	if err := s.port.SetMode(mode(rate)); err != nil {
		return fmt.Errorf("failed to set %s to %d baud: %v", s.path, rate, err)
	}
	s.rate = rate
	return nil
}

// BaudRate returns the rate the port was last configured with.
func (s *Serial) BaudRate() int {
	return s.rate
}

func (s *Serial) ResetInput() error {
	return s.port.ResetInputBuffer()
}

func (s *Serial) Close() error {
	return s.port.Close()
}

// Ports lists the serial ports present on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
