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

package snapshot

import (
	"errors"
	"image"
	"image/png"
	"log"
	"math"
	"os"
	"path"
	"sync"
	"time"

	"github.com/TheCacophonyProject/mlx-uart/frame"
)

const (
	SnapshotName          = "still.png"
	RawSnapshotName       = "still-raw.png"
	allowedSnapshotPeriod = 500 * time.Millisecond

	// HeatmapScale is how many image pixels wide each sensor pixel is
	// drawn in a snapshot.
	HeatmapScale = 10
)

// Snapshotter keeps the most recent result so that stills can be taken
// on request.
type Snapshotter struct {
	dir string

	mu                   sync.Mutex
	latest               *frame.Result
	previousSnapshotTime time.Time
	nowFunc              func() time.Time
}

func New(dir string) *Snapshotter {
	return &Snapshotter{
		dir:     dir,
		nowFunc: time.Now,
	}
}

// Update records res as the most recent result.
func (s *Snapshotter) Update(res frame.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &res
}

// Latest returns the most recent result, if there is one.
func (s *Snapshotter) Latest() (frame.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return frame.Result{}, false
	}
	return *s.latest, true
}

// Take writes the latest frame to the snapshot directory, as a heatmap
// or, with raw set, as 16-bit centi-kelvin. Requests arriving faster
// than allowedSnapshotPeriod are ignored.
func (s *Snapshotter) Take(raw bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if now.Sub(s.previousSnapshotTime) < allowedSnapshotPeriod {
		return nil
	}
	if s.latest == nil {
		return errors.New("no frames yet")
	}

	var img image.Image
	filename := SnapshotName
	if raw {
		img = Raw(&s.latest.Frame)
		filename = RawSnapshotName
	} else {
		img = Heatmap(&s.latest.Frame, HeatmapScale)
	}
	if err := WritePNG(path.Join(s.dir, filename), img); err != nil {
		return err
	}

	// the time will be changed only if the attempt is successful
	s.previousSnapshotTime = now
	return nil
}

// Delete removes any stills left from a previous run.
func (s *Snapshotter) Delete() {
	deleteSnapshotFile(s.dir, SnapshotName)
	deleteSnapshotFile(s.dir, RawSnapshotName)
}

func deleteSnapshotFile(dir, basename string) {
	if err := os.Remove(path.Join(dir, basename)); err != nil && !os.IsNotExist(err) {
		log.Printf("error deleting snapshot image: %v", err)
	}
}

// WritePNG encodes img to filename.
func WritePNG(filename string, img image.Image) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// normalise maps v into [0, 1] between lo and hi.
func normalise(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}
