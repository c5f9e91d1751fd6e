package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Student", "Due Date", "Amount"},
		Rows: []map[string]string{
			{"Student": "Ahmed Ali", "Due Date": "2024-01-15", "Amount": "500"},
			{"Student": "Sara Khan", "Due Date": "2024-02-15"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, utf8BOM))
	lines := strings.Split(strings.TrimSpace(string(out[len(utf8BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Due Date,Amount", lines[0])
	assert.Equal(t, "Sara Khan,2024-02-15,", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter(Landscape).Render(sampleDataset(), "Weekly schedule")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInvoice(t *testing.T) {
	out, err := RenderInvoice(Invoice{Number: "INV-20240115-ab12cd34", StudentName: "Ahmed Ali", Amount: "500", Currency: "SAR"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = RenderInvoice(Invoice{})
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter("Installments").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	header, err := f.GetCellValue("Installments", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Due Date", header)

	amount, err := f.GetCellValue("Installments", "C2")
	require.NoError(t, err)
	assert.Equal(t, "500", amount)
}
