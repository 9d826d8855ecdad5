package link

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Link = new(Scripted)
var _ Link = new(Serial)

func readAll(t *testing.T, l Link) []byte {
	var out []byte
	buf := make([]byte, 16)
	for {
		n, err := l.Read(buf)
		require.NoError(t, err)
		if n == 0 {
			return out
		}
		out = append(out, buf[:n]...)
	}
}

func TestStreamFollowsRate(t *testing.T) {
	l := NewScripted(9600, map[int][]byte{
		9600:   []byte("slow"),
		115200: []byte("fast"),
	})

	assert.Equal(t, []byte("slow"), readAll(t, l))
	require.NoError(t, l.SetBaudRate(115200))
	assert.Equal(t, []byte("fast"), readAll(t, l))
	assert.Equal(t, []int{115200}, l.BaudCalls)
}

func TestSilentRate(t *testing.T) {
	l := NewScripted(460800, map[int][]byte{9600: []byte("x")})
	assert.Empty(t, readAll(t, l))
}

func TestChunkLimitsReads(t *testing.T) {
	l := NewScripted(9600, map[int][]byte{9600: []byte("abcdefgh")})
	l.Chunk = 3

	buf := make([]byte, 16)
	n, err := l.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("abcdefgh"), append(buf[:3:3], readAll(t, l)...))
}

func TestLoopReplays(t *testing.T) {
	l := NewScripted(9600, map[int][]byte{9600: []byte("ab")})
	l.Loop = true

	buf := make([]byte, 2)
	for i := 0; i < 3; i++ {
		n, err := l.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "ab", string(buf[:n]))
	}
}

func TestResetInputDropsPending(t *testing.T) {
	l := NewScripted(9600, map[int][]byte{9600: []byte("new")})
	l.Pending = []byte("stale")
	require.NoError(t, l.ResetInput())
	assert.Equal(t, []byte("new"), readAll(t, l))
	assert.Equal(t, 1, l.Resets)
}

func TestSetBaudFailureKeepsRate(t *testing.T) {
	l := NewScripted(9600, nil)
	l.SetBaudErrs = map[int]error{115200: errors.New("nope")}
	assert.Error(t, l.SetBaudRate(115200))
	assert.Equal(t, 9600, l.Rate)
}

func TestReadErrorIsReturnedOnce(t *testing.T) {
	l := NewScripted(9600, nil)
	l.ReadErr = errors.New("unplugged")
	_, err := l.Read(make([]byte, 1))
	assert.Error(t, err)
	_, err = l.Read(make([]byte, 1))
	assert.NoError(t, err)
}

func TestWritesAreRecorded(t *testing.T) {
	l := NewScripted(9600, nil)
	_, err := l.Write([]byte{1, 2})
	require.NoError(t, err)
	_, err = l.Write([]byte{3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, l.Written())
}

func TestClosed(t *testing.T) {
	l := NewScripted(9600, nil)
	require.NoError(t, l.Close())
	_, err := l.Read(make([]byte, 1))
	assert.Equal(t, ErrClosed, err)
	_, err = l.Write([]byte{1})
	assert.Equal(t, ErrClosed, err)
}

func TestSerialMode(t *testing.T) {
	m := mode(115200)
	assert.Equal(t, 115200, m.BaudRate)
	assert.Equal(t, 8, m.DataBits)
}
