package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

func TestRenderHistogram(t *testing.T) {
	losses := make([]float64, 3000)
	for i := range losses {
		losses[i] = float64((i * i) % 997)
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(losses, 40, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderHistogramDefaultBins(t *testing.T) {
	losses := make([]float64, 500)
	for i := range losses {
		losses[i] = float64(i % 83)
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(losses, 0, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderHistogramConstantLosses(t *testing.T) {
	// A degenerate distribution still renders as a single bar.
	losses := []float64{250, 250, 250, 250}

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(losses, 30, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderHistogramEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderHistogram(nil, 30, &buf))
	assert.Zero(t, buf.Len())
}
