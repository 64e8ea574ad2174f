package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcriptDataset() Dataset {
	return Dataset{
		Title:   "Academic Transcript",
		Summary: []SummaryLine{{Label: "GPA", Value: "3.50"}},
		Headers: []string{"Code", "Title", "Credits"},
		Rows: []map[string]string{
			{"Code": "CS101", "Title": "Intro, Programming", "Credits": "3"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(transcriptDataset())

	require.NoError(t, err)
	assert.Equal(t, "GPA,3.50\n\nCode,Title,Credits\nCS101,\"Intro, Programming\",3\n", string(out))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})

	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(transcriptDataset())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRendererMetadata(t *testing.T) {
	var r Renderer = NewPDFExporter()
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "pdf", r.Extension())

	r = NewCSVExporter()
	assert.Equal(t, "text/csv", r.ContentType())
	assert.Equal(t, "csv", r.Extension())
}
