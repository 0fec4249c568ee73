package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_ProducesPDF(t *testing.T) {
	r := NewRenderer(nil)
	doc := r.Render(approvedRequest(), greenwood(), time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC))

	data, err := r.Export(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a PDF")
	assert.Greater(t, len(data), 1000)
}

func TestExport_WithLogo(t *testing.T) {
	logo := pngLogo(t)
	r := NewRenderer(func(string) ([]byte, error) { return logo, nil })
	doc := r.Render(approvedRequest(), greenwood(), time.Now())
	require.NotEmpty(t, doc.Logo)

	data, err := r.Export(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
