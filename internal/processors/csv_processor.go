package processors

import (
	"fmt"
	"strings"

	"github.com/VitalSync/health-ingestor/internal/utils"
	"go.uber.org/zap"
)

// CSVProcessor parses uploaded health CSV content into raw records for the
// shared record validator. It uses a minimal quote-toggle scanner rather than
// encoding/csv: fields are trimmed, a quote flips the in-quotes flag, and
// escaped quotes ("") inside a quoted field are not treated specially.
type CSVProcessor struct {
	Content  []byte
	Filename string
}

func NewCSVProcessorFromBytes(content []byte, filename string) *CSVProcessor {
	return &CSVProcessor{
		Content:  content,
		Filename: filename,
	}
}

// Tokenize splits raw CSV text into rows of trimmed fields. Lines are split on
// bare or carriage-return-prefixed line breaks and blank lines are dropped.
// No header or row-width validation happens here; that is the caller's job.
func Tokenize(text string) [][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, tokenizeLine(line))
	}
	return rows
}

// tokenizeLine scans one line character by character tracking a quote-toggle
// flag. A comma outside quotes ends the current field.
func tokenizeLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// Parse tokenizes the file, resolves the header row and converts each data row
// into a raw record keyed by canonical field name. Values stay raw strings;
// type coercion and bounds checks are the record validator's job.
func (p *CSVProcessor) Parse() ([]map[string]any, error) {
	rows := Tokenize(string(p.Content))
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	columns, err := MapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	dataRows := rows[1:]
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	records := make([]map[string]any, 0, len(dataRows))
	for _, row := range dataRows {
		record := make(map[string]any, len(columns))
		for field, idx := range columns {
			if idx < len(row) {
				record[field] = row[idx]
			} else {
				record[field] = ""
			}
		}
		records = append(records, record)
	}

	utils.Zlog.Debug("CSV parsed",
		zap.String("filename", p.Filename),
		zap.Int("rows", len(records)))

	return records, nil
}
