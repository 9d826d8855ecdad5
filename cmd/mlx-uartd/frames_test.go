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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/mlx-uart/capture"
	"github.com/TheCacophonyProject/mlx-uart/command"
	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/link"
	"github.com/TheCacophonyProject/mlx-uart/loglimiter"
	"github.com/TheCacophonyProject/mlx-uart/snapshot"
	"github.com/TheCacophonyProject/mlx-uart/synthetic"
	"github.com/TheCacophonyProject/mlx-uart/throttle"
)

type testPublisher struct {
	frames []frame.Frame
	err    error
}

func (p *testPublisher) Publish(f *frame.Frame) error {
	if p.err != nil {
		return p.err
	}
	p.frames = append(p.frames, *f)
	return nil
}

type testEvents struct {
	types []string
}

func (e *testEvents) Report(eventType string, details map[string]interface{}) bool {
	e.types = append(e.types, eventType)
	return true
}

type testRaw struct {
	saved [][]byte
}

func (r *testRaw) Write(data []byte) (string, error) {
	r.saved = append(r.saved, append([]byte(nil), data...))
	return "capture.mlxraw", nil
}

func newTestHandler(t *testing.T) (*frameHandler, *testPublisher, *testEvents, *testRaw) {
	p := new(testPublisher)
	e := new(testEvents)
	r := new(testRaw)
	return &frameHandler{
		publisher: p,
		events:    e,
		raw:       r,
		snap:      snapshot.New(t.TempDir()),
		limiter:   loglimiter.New(time.Minute),
		baudRate:  115200,
	}, p, e, r
}

func decodedResult() frame.Result {
	f := synthetic.NewWithSeed(1).Frame()
	f.Source = frame.SourceProtocol
	f.Layout = 1540
	return frame.NewDecoded(f)
}

func TestDecodedFrameIsPublished(t *testing.T) {
	h, p, e, r := newTestHandler(t)

	res := decodedResult()
	require.NoError(t, h.handle(res, capture.BufferFrom(make([]byte, 1546))))
	require.Len(t, p.frames, 1)
	assert.Equal(t, res.Frame, p.frames[0])
	assert.Empty(t, e.types)
	assert.Empty(t, r.saved)

	latest, ok := h.snap.Latest()
	require.True(t, ok)
	assert.Equal(t, frame.Decoded, latest.Status)
}

func TestSyntheticFrameIsReportedAndSaved(t *testing.T) {
	h, p, e, r := newTestHandler(t)

	buf := capture.BufferFrom([]byte("garbage from the sensor"))
	require.NoError(t, h.handle(synthetic.NewWithSeed(1).Result(), buf))
	require.Len(t, p.frames, 1)
	assert.Equal(t, frame.SourceSynthetic, p.frames[0].Source)
	assert.Equal(t, []string{throttle.SyntheticEvent}, e.types)
	require.Len(t, r.saved, 1)
	assert.Equal(t, buf.Bytes(), r.saved[0])
}

func TestSilentLinkRestartsSensor(t *testing.T) {
	h, _, e, r := newTestHandler(t)
	gen := synthetic.NewWithSeed(1)

	for i := 0; i < maxSilentCycles-1; i++ {
		require.NoError(t, h.handle(gen.Result(), capture.NewBuffer()))
	}
	assert.Equal(t, errLinkSilent, h.handle(gen.Result(), capture.NewBuffer()))
	assert.Len(t, e.types, maxSilentCycles)
	assert.Equal(t, throttle.LinkSilentEvent, e.types[0])
	assert.Empty(t, r.saved)

	// The count starts again afterwards.
	assert.NoError(t, h.handle(gen.Result(), capture.NewBuffer()))
}

func TestDecodedFrameResetsSilence(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	gen := synthetic.NewWithSeed(1)

	for i := 0; i < maxSilentCycles*2; i++ {
		require.NoError(t, h.handle(gen.Result(), capture.NewBuffer()))
		require.NoError(t, h.handle(decodedResult(), capture.NewBuffer()))
	}
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	h, p, _, _ := newTestHandler(t)
	p.err = errors.New("no listener")
	assert.NoError(t, h.handle(decodedResult(), capture.NewBuffer()))
}

func TestConfigureSensor(t *testing.T) {
	l := link.NewScripted(115200, nil)
	l.Pending = []byte("ack")
	require.NoError(t, configureSensor(l, 2))

	rate, err := command.SetFrameRate(2)
	require.NoError(t, err)
	on := command.SetAutoOutput(true)
	assert.Equal(t, append(rate[:], on[:]...), l.Written())
	assert.Equal(t, 1, l.Resets)
}

func TestConfigureSensorWriteFailure(t *testing.T) {
	l := link.NewScripted(115200, nil)
	require.NoError(t, l.Close())
	assert.Error(t, configureSensor(l, 2))
}
