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
	"sync"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/TheCacophonyProject/mlx-uart/snapshot"
)

const (
	dbusName = "org.cacophony.mlxuart"
	dbusPath = "/org/cacophony/mlxuart"
)

type service struct {
	snap *snapshot.Snapshotter

	mu       sync.Mutex
	baudRate int
}

func startService(snap *snapshot.Snapshotter) (*service, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("name already taken")
	}

	s := &service{
		snap: snap,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")
	return s, nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

func (s *service) setBaudRate(rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baudRate = rate
}

// TakeSnapshot will save the latest frame as a heatmap still
func (s *service) TakeSnapshot() *dbus.Error {
	if err := s.snap.Take(false); err != nil {
		return makeDbusError("TakeSnapshot", err)
	}
	return nil
}

// TakeRawSnapshot will save the latest frame as a unnormalised still
func (s *service) TakeRawSnapshot() *dbus.Error {
	if err := s.snap.Take(true); err != nil {
		return makeDbusError("TakeRawSnapshot", err)
	}
	return nil
}

// FrameStats returns the min, max, mean and centre temperatures of the
// latest frame and whether it was decoded or synthetic.
func (s *service) FrameStats() (float64, float64, float64, float64, string, *dbus.Error) {
	res, ok := s.snap.Latest()
	if !ok {
		return 0, 0, 0, 0, "", makeDbusError("FrameStats", errors.New("no frames yet"))
	}
	stats := res.Frame.Stats()
	return stats.Min, stats.Max, stats.Mean, stats.Centre, res.Status.String(), nil
}

// BaudRate returns the rate the sensor link is running at.
func (s *service) BaudRate() (int32, *dbus.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(s.baudRate), nil
}

func makeDbusError(name string, err error) *dbus.Error {
	return &dbus.Error{
		Name: dbusName + "." + name,
		Body: []interface{}{err.Error()},
	}
}
