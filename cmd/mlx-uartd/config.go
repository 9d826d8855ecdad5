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
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/command"
	"github.com/TheCacophonyProject/mlx-uart/throttle"
)

type Config struct {
	SerialPort      string          `yaml:"serial-port"`
	PowerPin        string          `yaml:"power-pin"`
	BaudRates       []int           `yaml:"baud-rates"`
	DefaultBaudRate int             `yaml:"default-baud-rate"`
	ProbeWindow     time.Duration   `yaml:"probe-window"`
	CaptureWindow   time.Duration   `yaml:"capture-window"`
	EarlyStop       bool            `yaml:"early-stop"`
	StrictChecksum  bool            `yaml:"strict-checksum"`
	FrameRate       float64         `yaml:"frame-rate"`
	FrameOutput     string          `yaml:"frame-output"`
	OutputDir       string          `yaml:"output-dir"`
	RawCaptureDir   string          `yaml:"raw-capture-dir"`
	Events          throttle.Config `yaml:"events"`
}

var defaultConfig = Config{
	SerialPort:      "/dev/ttyS0",
	PowerPin:        "GPIO23",
	BaudRates:       capture.DefaultBaudRates,
	DefaultBaudRate: capture.DefaultBaudRate,
	ProbeWindow:     capture.DefaultProbeWindow,
	CaptureWindow:   capture.DefaultCaptureWindow,
	EarlyStop:       true,
	StrictChecksum:  false,
	FrameRate:       4,
	FrameOutput:     "/var/run/mlx-frames",
	OutputDir:       "/var/spool/mlx",
	RawCaptureDir:   "",
	Events:          throttle.DefaultConfig(),
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	conf.BaudRates = nil
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if conf.BaudRates == nil {
		conf.BaudRates = append([]int(nil), defaultConfig.BaudRates...)
	}
	return &conf, nil
}

func (conf *Config) Validate() error {
	if conf.SerialPort == "" {
		return errors.New("serial-port must be set")
	}
	if len(conf.BaudRates) == 0 {
		return errors.New("baud-rates must list at least one rate")
	}
	for _, rate := range conf.BaudRates {
		if rate <= 0 {
			return fmt.Errorf("invalid baud rate %d", rate)
		}
	}
	if conf.DefaultBaudRate <= 0 {
		return fmt.Errorf("invalid default-baud-rate %d", conf.DefaultBaudRate)
	}
	if conf.ProbeWindow <= 0 {
		return errors.New("probe-window must be positive")
	}
	if conf.CaptureWindow <= 0 {
		return errors.New("capture-window must be positive")
	}
	if _, err := command.SetFrameRate(conf.FrameRate); err != nil {
		return err
	}
	if conf.Events.BucketSize < 1 {
		return errors.New("events bucket-size must be at least 1")
	}
	if conf.Events.Refill <= 0 {
		return errors.New("events refill must be positive")
	}
	return nil
}
