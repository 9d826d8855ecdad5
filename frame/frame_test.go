package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampFrame(base, step float64) Frame {
	var f Frame
	for i := range f.Pixels {
		f.Pixels[i] = base + float64(i)*step
	}
	return f
}

func TestPlausibleAcceptsRoomTemperatures(t *testing.T) {
	f := rampFrame(20, 0.01)
	assert.True(t, Plausible(f.Pixels[:]))
}

func TestPlausibleRejectsFlatFrame(t *testing.T) {
	var f Frame
	assert.False(t, Plausible(f.Pixels[:]))
}

func TestPlausibleRejectsTooCold(t *testing.T) {
	f := rampFrame(20, 0.01)
	f.Pixels[10] = -55
	assert.False(t, Plausible(f.Pixels[:]))

	f.Pixels[10] = -54.9
	assert.True(t, Plausible(f.Pixels[:]))
}

func TestPlausibleRejectsTooHot(t *testing.T) {
	f := rampFrame(20, 0.01)
	f.Pixels[10] = 360
	assert.False(t, Plausible(f.Pixels[:]))

	f.Pixels[10] = 359.9
	assert.True(t, Plausible(f.Pixels[:]))
}

func TestPlausibleRequiresSpreadAboveHalfDegree(t *testing.T) {
	f := rampFrame(20, 0)
	f.Pixels[0] = 20.5
	assert.False(t, Plausible(f.Pixels[:]))

	f.Pixels[0] = 20.51
	assert.True(t, Plausible(f.Pixels[:]))
}

func TestPlausibleEmpty(t *testing.T) {
	assert.False(t, Plausible(nil))
}

func TestStats(t *testing.T) {
	f := rampFrame(0, 1)
	s := f.Stats()
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, float64(Pixels-1), s.Max)
	assert.InDelta(t, float64(Pixels-1)/2, s.Mean, 1e-9)
	assert.Equal(t, float64(12*Cols+16), s.Centre)
}

func TestResultTags(t *testing.T) {
	f := rampFrame(20, 0.01)
	f.ChecksumValid = true
	f.Source = SourceProtocol

	decoded := NewDecoded(f)
	assert.True(t, decoded.Authoritative())
	assert.Equal(t, "decoded", decoded.Status.String())

	synth := NewSynthetic(f)
	assert.False(t, synth.Authoritative())
	assert.Equal(t, SourceSynthetic, synth.Frame.Source)
	assert.False(t, synth.Frame.ChecksumValid)

	assert.False(t, Result{}.Authoritative())
	assert.Equal(t, "not-found", Result{}.Status.String())
}

func TestBinaryEncoding(t *testing.T) {
	f := rampFrame(20, 0.25)
	f.AuxTemperature = 31.5
	f.HasAuxTemperature = true
	f.ChecksumValid = true
	f.Source = SourceProtocol
	f.Layout = 1538

	data, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, EncodedSize)

	var out Frame
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, f, out)
}

func TestUnmarshalBinaryWrongSize(t *testing.T) {
	var f Frame
	assert.EqualError(t, f.UnmarshalBinary([]byte{1, 2, 3}), "encoded frame is 3 bytes, expected 3080")
}
