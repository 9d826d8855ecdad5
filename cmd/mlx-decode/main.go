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

// mlx-decode runs the frame decoder over raw captures saved from the
// sensor link.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/mlx-uart/acquire"
	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/decode"
	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/snapshot"
	"github.com/TheCacophonyProject/mlx-uart/synthetic"
)

var version = "<not set>"

type Args struct {
	Files       []string `arg:"positional,required" help:"raw capture files to decode"`
	Strict      bool     `arg:"--strict" help:"reject frames with a bad checksum"`
	Dump        bool     `arg:"--dump" help:"print a hex dump of each capture"`
	PNG         string   `arg:"--png" help:"write a heatmap of each frame to this directory"`
	NoSynthetic bool     `arg:"--no-synthetic" help:"report a failure instead of a synthetic frame"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	arg.MustParse(&args)
	return args
}

var errNotFound = errors.New("no frame found")

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()
	log.SetFlags(0)

	failed := 0
	for _, filename := range args.Files {
		if err := decodeFile(os.Stdout, filename, args); err != nil {
			log.Printf("%s: %v", filename, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args.Files))
	}
	return nil
}

func decodeFile(w io.Writer, filename string, args Args) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	buf := capture.BufferFrom(data)
	if len(data) > buf.Len() {
		fmt.Fprintf(w, "%s: only the first %d of %d bytes are decoded\n", filename, buf.Len(), len(data))
	}
	if args.Dump {
		fmt.Fprint(w, buf.Dump())
	}

	var res frame.Result
	if args.NoSynthetic {
		res = decode.Decoder{StrictChecksum: args.Strict}.Decode(buf.Bytes())
		if res.Status == frame.NotFound {
			return errNotFound
		}
	} else {
		acq := acquire.New(acquire.Config{StrictChecksum: args.Strict}, nil, synthetic.New())
		res = acq.Decode(buf)
	}
	printResult(w, filename, buf, res)

	if args.PNG != "" {
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".png"
		img := snapshot.Heatmap(&res.Frame, snapshot.HeatmapScale)
		if err := snapshot.WritePNG(filepath.Join(args.PNG, name), img); err != nil {
			return err
		}
	}
	return nil
}

func printResult(w io.Writer, filename string, buf *capture.Buffer, res frame.Result) {
	f := res.Frame
	s := f.Stats()
	fmt.Fprintf(w, "%s: %d bytes, %s (%s)\n", filename, buf.Len(), res.Status, f.Source)
	if f.Layout != 0 {
		fmt.Fprintf(w, "  layout: %d bytes, checksum valid: %v, kelvin corrected: %v\n",
			f.Layout, f.ChecksumValid, f.KelvinCorrected)
	}
	if f.HasAuxTemperature {
		fmt.Fprintf(w, "  aux temperature: %.2f\n", f.AuxTemperature)
	}
	fmt.Fprintf(w, "  min %.2f  max %.2f  mean %.2f  centre %.2f\n", s.Min, s.Max, s.Mean, s.Centre)
}
