package output

import (
	"bufio"
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/mlx-uart/frame"
	"github.com/TheCacophonyProject/mlx-uart/headers"
)

func listen(t *testing.T) (string, *net.UnixListener) {
	path := filepath.Join(t.TempDir(), "frames")
	l, err := net.ListenUnix("unixpacket", &net.UnixAddr{Net: "unixpacket", Name: path})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return path, l
}

func readPacket(t *testing.T, conn net.Conn) []byte {
	buf := make([]byte, 8192)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestPublishSendsHeaderThenFrames(t *testing.T) {
	path, l := listen(t)
	p := NewFramePublisher(path, headers.New(4, frame.EncodedSize, 115200))
	defer p.Close()

	f := frame.Frame{Source: frame.SourceProtocol, Layout: 1538, ChecksumValid: true}
	f.Pixels[5] = 21.5
	require.NoError(t, p.Publish(&f))
	assert.True(t, p.Connected())

	conn, err := l.Accept()
	require.NoError(t, err)
	defer conn.Close()

	h, err := headers.ReadHeaderInfo(bufio.NewReader(bytes.NewReader(readPacket(t, conn))))
	require.NoError(t, err)
	assert.Equal(t, frame.EncodedSize, h.FrameSize())
	assert.Equal(t, 115200, h.BaudRate())

	packet := readPacket(t, conn)
	require.Len(t, packet, frame.EncodedSize)
	var got frame.Frame
	require.NoError(t, got.UnmarshalBinary(packet))
	assert.Equal(t, f, got)
}

func TestPublishWithoutListener(t *testing.T) {
	p := NewFramePublisher(filepath.Join(t.TempDir(), "nobody"), headers.New(4, frame.EncodedSize, 9600))
	assert.Error(t, p.Publish(new(frame.Frame)))
	assert.False(t, p.Connected())
	assert.NoError(t, p.Close())
}

func TestRawWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	rw := NewRawWriter(dir)
	rw.nowFunc = func() time.Time {
		return time.Date(2026, 3, 1, 10, 20, 30, 456e6, time.UTC)
	}

	name, err := rw.Write([]byte{0x5A, 0x5A, 0x00})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-03-01T10:20:30.456.mlxraw"), name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x5A, 0x5A, 0x00}, data)
}
