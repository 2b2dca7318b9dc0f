package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Encoding selects the byte encoding of rendered CSV output.
type Encoding string

const (
	// EncodingUTF8BOM prefixes a UTF-8 byte order mark so spreadsheet
	// applications pick the right codec when opening the download.
	EncodingUTF8BOM Encoding = "utf8bom"
	// EncodingShiftJIS re-encodes the output for legacy locale tooling.
	EncodingShiftJIS Encoding = "sjis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset in the given encoding.
func (e *CSVExporter) Render(data Dataset, enc Encoding) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	switch enc {
	case EncodingShiftJIS:
		encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("encode csv as shift_jis: %w", err)
		}
		return encoded, nil
	case EncodingUTF8BOM, "":
		return append(append([]byte{}, utf8BOM...), buf.Bytes()...), nil
	default:
		return nil, fmt.Errorf("unknown csv encoding %q", enc)
	}
}
