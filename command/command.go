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

// Package command builds the short control messages the sensor module
// accepts. Every message is five bytes: A5 05 <code> <param> <sum>.
package command

import (
	"fmt"
	"io"
)

const (
	header0 = 0xA5
	header1 = 0x05

	// Size is the length of every encoded command.
	Size = 5
)

// Code identifies a command.
type Code byte

const (
	CodeSetBaudRate     Code = 0x15
	CodeSetFrameRate    Code = 0x25
	CodeSetAutoOutput   Code = 0x35
	CodeQueryAutoOutput Code = 0x45
)

// BaudRates are the rates the module can be switched to, in parameter
// order.
var BaudRates = []int{9600, 115200, 460800}

// FrameRates are the output rates in Hz, in parameter order.
var FrameRates = []float64{0.5, 1, 2, 4, 8}

// Command is one encoded control message.
type Command [Size]byte

func New(code Code, param byte) Command {
	c := Command{header0, header1, byte(code), param}
	c[4] = c[0] + c[1] + c[2] + c[3]
	return c
}

func (c Command) Code() Code {
	return Code(c[2])
}

func (c Command) Param() byte {
	return c[3]
}

func (c Command) String() string {
	return fmt.Sprintf("% X", c[:])
}

// SetBaudRate asks the module to switch speed.
func SetBaudRate(rate int) (Command, error) {
	for i, r := range BaudRates {
		if r == rate {
			return New(CodeSetBaudRate, byte(i)), nil
		}
	}
	return Command{}, fmt.Errorf("unsupported baud rate %d", rate)
}

// SetFrameRate asks the module to send frames at hz.
func SetFrameRate(hz float64) (Command, error) {
	for i, r := range FrameRates {
		if r == hz {
			return New(CodeSetFrameRate, byte(i)), nil
		}
	}
	return Command{}, fmt.Errorf("unsupported frame rate %v Hz", hz)
}

// SetAutoOutput turns continuous frame output on or off.
func SetAutoOutput(on bool) Command {
	var p byte
	if on {
		p = 1
	}
	return New(CodeSetAutoOutput, p)
}

func QueryAutoOutput() Command {
	return New(CodeQueryAutoOutput, 0)
}

// Send writes c to w.
func Send(w io.Writer, c Command) error {
	if _, err := w.Write(c[:]); err != nil {
		return fmt.Errorf("failed to send command %s: %v", c, err)
	}
	return nil
}
