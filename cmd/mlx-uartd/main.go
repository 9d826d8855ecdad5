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
	"fmt"
	"log"
	"math"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/TheCacophonyProject/mlx-uart/acquire"
	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/command"
	"github.com/TheCacophonyProject/mlx-uart/decode"
	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/headers"
	"github.com/TheCacophonyProject/mlx-uart/link"
	"github.com/TheCacophonyProject/mlx-uart/loglimiter"
	"github.com/TheCacophonyProject/mlx-uart/output"
	"github.com/TheCacophonyProject/mlx-uart/snapshot"
	"github.com/TheCacophonyProject/mlx-uart/synthetic"
	"github.com/TheCacophonyProject/mlx-uart/throttle"
)

const (
	logLimitInterval = 5 * time.Minute
	commandSettle    = 100 * time.Millisecond
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	Quick      bool   `arg:"-q,--quick" help:"don't cycle sensor power on startup"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Verbose    bool   `arg:"-v,--verbose" help:"log details of every capture"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/mlx-uartd.yaml"
	arg.MustParse(&args)
	return args
}

type nextFrameErr struct {
	cause error
}

func (e *nextFrameErr) Error() string {
	return e.cause.Error()
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()
	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	logConfig(conf)

	log.Print("host initialisation")
	if _, err := host.Init(); err != nil {
		return err
	}

	if !args.Quick {
		if err := cycleSensorPower(conf.PowerPin); err != nil {
			return err
		}
	}

	snap := snapshot.New(conf.OutputDir)
	snap.Delete()
	svc, err := startService(snap)
	if err != nil {
		return err
	}
	events := throttle.NewEventReporter(conf.Events)

	for {
		err := runSensor(conf, args, svc, events)
		if err != nil {
			if _, isNextFrameErr := err.(*nextFrameErr); !isNextFrameErr {
				return err
			}
			log.Printf("sensor error: %v", err)
		}

		if err := cycleSensorPower(conf.PowerPin); err != nil {
			return err
		}
	}
}

func runSensor(conf *Config, args Args, svc *service, events *throttle.EventReporter) error {
	log.Printf("opening %s", conf.SerialPort)
	sensor, err := link.Open(conf.SerialPort, conf.DefaultBaudRate)
	if err != nil {
		return err
	}
	defer func() {
		log.Print("closing sensor link")
		sensor.Close()
	}()

	log.Print("probing baud rate")
	rate, seen := capture.Probe(sensor, conf.BaudRates, conf.ProbeWindow, conf.DefaultBaudRate, capture.SystemClock)
	for _, c := range seen {
		log.Printf("%d baud: %d bytes", c.Rate, c.BytesObserved)
	}
	log.Printf("using %d baud", rate)
	if err := sensor.SetBaudRate(rate); err != nil {
		return &nextFrameErr{err}
	}
	svc.setBaudRate(rate)

	if err := configureSensor(sensor, conf.FrameRate); err != nil {
		return &nextFrameErr{err}
	}

	decoder := decode.Decoder{StrictChecksum: conf.StrictChecksum}
	acq := acquire.New(acquire.Config{
		CaptureWindow:  conf.CaptureWindow,
		EarlyStop:      conf.EarlyStop,
		StrictChecksum: conf.StrictChecksum,
	}, capture.NewWindow(sensor, decoder), synthetic.New())

	fps := int(math.Ceil(conf.FrameRate))
	publisher := output.NewFramePublisher(conf.FrameOutput, headers.New(fps, frame.EncodedSize, rate))
	defer publisher.Close()

	handler := &frameHandler{
		publisher: publisher,
		events:    events,
		snap:      svc.snap,
		limiter:   loglimiter.New(logLimitInterval),
		verbose:   args.Verbose,
		baudRate:  rate,
	}
	if conf.RawCaptureDir != "" {
		handler.raw = output.NewRawWriter(conf.RawCaptureDir)
	}

	log.Print("reading frames")
	for {
		res, buf, err := acq.Next()
		if err != nil {
			return &nextFrameErr{err}
		}
		daemon.SdNotify(false, "WATCHDOG=1")

		if err := handler.handle(res, buf); err != nil {
			return &nextFrameErr{err}
		}

		if counts := acq.Counts(); counts.Cycles%100 == 0 {
			log.Printf("%d cycles: %d decoded, %d synthetic (%d silent)",
				counts.Cycles, counts.Decoded, counts.Synthetic, counts.Silent)
		}
	}
}

// configureSensor asks the sensor to stream frames continuously at the
// configured rate.
func configureSensor(sensor link.Link, frameRate float64) error {
	rateCmd, err := command.SetFrameRate(frameRate)
	if err != nil {
		return err
	}
	for _, cmd := range []command.Command{rateCmd, command.SetAutoOutput(true)} {
		log.Printf("sending command %s", cmd)
		if err := command.Send(sensor, cmd); err != nil {
			return err
		}
		time.Sleep(commandSettle)
	}
	return sensor.ResetInput()
}

func logConfig(conf *Config) {
	log.Printf("serial port: %s", conf.SerialPort)
	log.Printf("power pin: %s", conf.PowerPin)
	log.Printf("baud rates: %v (default %d)", conf.BaudRates, conf.DefaultBaudRate)
	log.Printf("probe window: %s", conf.ProbeWindow)
	log.Printf("capture window: %s (early stop: %v)", conf.CaptureWindow, conf.EarlyStop)
	log.Printf("strict checksum: %v", conf.StrictChecksum)
	log.Printf("frame rate: %v Hz", conf.FrameRate)
	log.Printf("frame output: %s", conf.FrameOutput)
	log.Printf("output dir: %s", conf.OutputDir)
	if conf.RawCaptureDir != "" {
		log.Printf("raw capture dir: %s", conf.RawCaptureDir)
	}
}

func cycleSensorPower(pinName string) error {
	if pinName == "" {
		return nil
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return fmt.Errorf("unknown sensor power pin %s", pinName)
	}

	log.Print("turning sensor power off")
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to set sensor power pin low: %v", err)
	}
	time.Sleep(2 * time.Second)

	log.Print("turning sensor power on")
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to set sensor power pin high: %v", err)
	}

	log.Print("waiting for sensor startup")
	time.Sleep(2 * time.Second)
	log.Print("sensor should be ready")
	return nil
}
