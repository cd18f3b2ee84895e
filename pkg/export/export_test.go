package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Lessons",
		Headers: []string{"Lesson", "Price", "Students"},
		Rows: [][]string{
			{"Math", "$1,234.5", "Amy Tan, Ben"},
			{"Art", "", ""},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Lesson,Price,Students", lines[0])
	assert.Equal(t, `Math,"$1,234.5","Amy Tan, Ben"`, lines[1])
	assert.Equal(t, "Art,,", lines[2])
}

func TestExportersRejectBadDatasets(t *testing.T) {
	tests := []struct {
		name string
		data Dataset
	}{
		{"no headers", Dataset{}},
		{"ragged row", Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCSVExporter().Render(tc.data)
			assert.Error(t, err)
			_, err = NewPDFExporter().Render(tc.data)
			assert.Error(t, err)
		})
	}
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, []string{"Lesson", "$80", strings.Repeat("Student ", 40)})
	}

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
