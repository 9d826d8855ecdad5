package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	c := New(CodeSetAutoOutput, 1)
	assert.Equal(t, Command{0xA5, 0x05, 0x35, 0x01, 0xE0}, c)
	assert.Equal(t, CodeSetAutoOutput, c.Code())
	assert.Equal(t, byte(1), c.Param())
}

func TestChecksumWraps(t *testing.T) {
	c := New(CodeQueryAutoOutput, 0xFF)
	// 0xA5 + 0x05 + 0x45 + 0xFF = 0x1EE
	assert.Equal(t, byte(0xEE), c[4])
}

func TestSetBaudRate(t *testing.T) {
	for i, rate := range BaudRates {
		c, err := SetBaudRate(rate)
		require.NoError(t, err)
		assert.Equal(t, CodeSetBaudRate, c.Code())
		assert.Equal(t, byte(i), c.Param())
	}
	_, err := SetBaudRate(57600)
	assert.Error(t, err)
}

func TestSetFrameRate(t *testing.T) {
	c, err := SetFrameRate(4)
	require.NoError(t, err)
	assert.Equal(t, Command{0xA5, 0x05, 0x25, 0x03, 0xD2}, c)

	_, err = SetFrameRate(3)
	assert.Error(t, err)
}

func TestAutoOutput(t *testing.T) {
	assert.Equal(t, byte(1), SetAutoOutput(true).Param())
	assert.Equal(t, byte(0), SetAutoOutput(false).Param())
	assert.Equal(t, CodeQueryAutoOutput, QueryAutoOutput().Code())
}

func TestString(t *testing.T) {
	assert.Equal(t, "A5 05 35 00 DF", SetAutoOutput(false).String())
}

func TestSend(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Send(&out, SetAutoOutput(true)))
	require.NoError(t, Send(&out, QueryAutoOutput()))
	assert.Equal(t, []byte{
		0xA5, 0x05, 0x35, 0x01, 0xE0,
		0xA5, 0x05, 0x45, 0x00, 0xEF,
	}, out.Bytes())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("unplugged")
}

func TestSendError(t *testing.T) {
	err := Send(brokenWriter{}, QueryAutoOutput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "A5 05 45 00 EF")
}
