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

import "time"

// Config controls how often events of one type may be reported.
type Config struct {
	// BucketSize is how many events can be sent back to back.
	BucketSize int64 `yaml:"bucket-size"`
	// Refill is how long it takes for one more event to be allowed.
	Refill time.Duration `yaml:"refill"`
}

func DefaultConfig() Config {
	return Config{
		BucketSize: 3,
		Refill:     10 * time.Minute,
	}
}
