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
	"net"

	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/headers"
)

// FramePublisher sends frames to whoever is listening on a unix socket.
// The header goes out first on every new connection, then one packet
// per frame.
type FramePublisher struct {
	path   string
	header *headers.HeaderInfo
	conn   *net.UnixConn
}

func NewFramePublisher(path string, header *headers.HeaderInfo) *FramePublisher {
	return &FramePublisher{
		path:   path,
		header: header,
	}
}

// Connected reports whether a connection is currently open.
func (p *FramePublisher) Connected() bool {
	return p.conn != nil
}

// Publish sends f, connecting first if needed. On failure the
// connection is dropped and the next Publish dials again.
func (p *FramePublisher) Publish(f *frame.Frame) error {
	if p.conn == nil {
		if err := p.connect(); err != nil {
			return err
		}
	}
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := p.conn.Write(data); err != nil {
		p.Close()
		return err
	}
	return nil
}

func (p *FramePublisher) connect() error {
	conn, err := Dial(p.path)
	if err != nil {
		return err
	}
	conn.SetWriteBuffer(frame.EncodedSize * 20)
	if err := p.header.Write(conn); err != nil {
		conn.Close()
		return err
	}
	p.conn = conn
	return nil
}

func (p *FramePublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// Dial connects to a frame socket.
func Dial(path string) (*net.UnixConn, error) {
	return net.DialUnix("unixpacket", nil, &net.UnixAddr{
		Net:  "unixpacket",
		Name: path,
	})
}
