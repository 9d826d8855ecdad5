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

package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RawExt is the extension of raw capture files.
const RawExt = ".mlxraw"

// RawWriter saves captured sensor bytes so they can be decoded later.
type RawWriter struct {
	dir     string
	nowFunc func() time.Time
}

func NewRawWriter(dir string) *RawWriter {
	return &RawWriter{
		dir:     dir,
		nowFunc: time.Now,
	}
}

// Write saves data to a new file named after the current time and
// returns the file's path.
func (rw *RawWriter) Write(data []byte) (string, error) {
	if err := os.MkdirAll(rw.dir, 0755); err != nil {
		return "", err
	}
	filename := rw.nextFileName()
	f, err := newBufferedFile(filename)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filename, nil
}

func (rw *RawWriter) nextFileName() string {
	name := fmt.Sprintf("%s%s", rw.nowFunc().Format("2006-01-02T15:04:05.000"), RawExt)
	return filepath.Join(rw.dir, name)
}

func newBufferedFile(filename string) (*bufferedFile, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{
		f: f,
		w: bufio.NewWriter(f),
	}, nil
}

type bufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (bf *bufferedFile) Write(p []byte) (int, error) {
	return bf.w.Write(p)
}

func (bf *bufferedFile) Close() error {
	if err := bf.w.Flush(); err != nil {
		bf.f.Close()
		return err
	}
	return bf.f.Close()
}
