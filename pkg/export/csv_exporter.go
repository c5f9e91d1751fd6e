package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM marks the output as UTF-8 for spreadsheet apps.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes datasets as comma separated text.
type CSVExporter struct {
	bom bool
}

// NewCSVExporter returns an exporter that prefixes its output with a UTF-8 byte order mark.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{bom: true}
}

// Render encodes the header line followed by one line per row.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("csv"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if e.bom {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		records = append(records, data.record(row))
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
