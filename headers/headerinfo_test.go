package headers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(4, 3080, 115200).Write(&out))
	out.WriteString("frame data")

	r := bufio.NewReader(&out)
	h, err := ReadHeaderInfo(r)
	require.NoError(t, err)
	assert.Equal(t, 32, h.ResX())
	assert.Equal(t, 24, h.ResY())
	assert.Equal(t, 4, h.FPS())
	assert.Equal(t, 3080, h.FrameSize())
	assert.Equal(t, 115200, h.BaudRate())
	assert.Equal(t, "melexis", h.Brand())
	assert.Equal(t, "mlx90640", h.Model())

	rest, err := r.ReadString(0)
	assert.Equal(t, "frame data", rest)
	assert.Error(t, err)
}

func TestMissingFieldsAreZero(t *testing.T) {
	h, err := ReadHeaderInfo(bufio.NewReader(strings.NewReader("Brand: other\n\n")))
	require.NoError(t, err)
	assert.Equal(t, "other", h.Brand())
	assert.Equal(t, 0, h.ResX())
	assert.Equal(t, "", h.Model())
}

func TestUnterminatedHeader(t *testing.T) {
	_, err := ReadHeaderInfo(bufio.NewReader(strings.NewReader("ResX: 32\n")))
	assert.Error(t, err)
}
