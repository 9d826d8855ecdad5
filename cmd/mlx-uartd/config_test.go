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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/mlx-uart/throttle"
)

func TestAllDefaults(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	assert.Equal(t, Config{
		SerialPort:      "/dev/ttyS0",
		PowerPin:        "GPIO23",
		BaudRates:       []int{9600, 115200, 460800},
		DefaultBaudRate: 9600,
		ProbeWindow:     500 * time.Millisecond,
		CaptureWindow:   5 * time.Second,
		EarlyStop:       true,
		StrictChecksum:  false,
		FrameRate:       4,
		FrameOutput:     "/var/run/mlx-frames",
		OutputDir:       "/var/spool/mlx",
		RawCaptureDir:   "",
		Events: throttle.Config{
			BucketSize: 3,
			Refill:     10 * time.Minute,
		},
	}, *conf)
}

func TestAllSet(t *testing.T) {
	// All config set at non-default values.
	config := []byte(`
serial-port: /dev/ttyAMA0
power-pin: "PIN"
baud-rates: [115200, 9600]
default-baud-rate: 115200
probe-window: 250ms
capture-window: 2s
early-stop: false
strict-checksum: true
frame-rate: 0.5
frame-output: /some/sock
output-dir: /some/dir
raw-capture-dir: /some/raw
events:
  bucket-size: 10
  refill: 1h
`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	assert.Equal(t, Config{
		SerialPort:      "/dev/ttyAMA0",
		PowerPin:        "PIN",
		BaudRates:       []int{115200, 9600},
		DefaultBaudRate: 115200,
		ProbeWindow:     250 * time.Millisecond,
		CaptureWindow:   2 * time.Second,
		EarlyStop:       false,
		StrictChecksum:  true,
		FrameRate:       0.5,
		FrameOutput:     "/some/sock",
		OutputDir:       "/some/dir",
		RawCaptureDir:   "/some/raw",
		Events: throttle.Config{
			BucketSize: 10,
			Refill:     time.Hour,
		},
	}, *conf)
}

func TestDefaultsAreNotShared(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	conf.BaudRates[0] = 1

	again, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 9600, again.BaudRates[0])
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"serial-port: ''":          "serial-port must be set",
		"baud-rates: []":           "baud-rates must list at least one rate",
		"baud-rates: [9600, -1]":   "invalid baud rate -1",
		"default-baud-rate: 0":     "invalid default-baud-rate 0",
		"probe-window: 0s":         "probe-window must be positive",
		"capture-window: -1s":      "capture-window must be positive",
		"frame-rate: 3":            "unsupported frame rate 3 Hz",
		"events: {bucket-size: 0}": "events bucket-size must be at least 1",
		"events: {refill: 0s}":     "events refill must be positive",
	}
	for input, msg := range cases {
		t.Run(input, func(t *testing.T) {
			conf, err := ParseConfig([]byte(input))
			require.NoError(t, err)
			assert.EqualError(t, conf.Validate(), msg)
		})
	}
}

func TestParseConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "mlx-uartd.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("serial-port: /dev/ttyUSB0\n"), 0644))

	conf, err := ParseConfigFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", conf.SerialPort)

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
