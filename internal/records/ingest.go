package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("records: unsupported file format")

// Snapshot is one uploaded file, parsed. A dealer has at most one live
// snapshot; a new upload replaces it wholesale.
type Snapshot struct {
	ID             string
	Headers        []string
	VisibleHeaders []string
	Records        []Record
	UploadedAt     time.Time
}

// Parse dispatches on the uploaded filename's extension.
func Parse(filename string, r io.Reader) (*Snapshot, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseCSV reads a header row plus data rows. All CSV cells stay strings;
// date serials only occur in spreadsheet uploads.
func ParseCSV(r io.Reader) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("records: parse csv: %w", err)
	}
	if len(rows) == 0 {
		return newSnapshot(nil, nil), nil
	}

	headers := rows[0]
	recs := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return newSnapshot(headers, recs), nil
}

// ParseXLSX reads the first sheet of a workbook. Raw cell values are
// requested so numeric date serials arrive as numbers instead of the
// sheet's display formatting.
func ParseXLSX(r io.Reader) (*Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("records: open xlsx: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return newSnapshot(nil, nil), nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("records: read sheet: %w", err)
	}
	if len(rows) == 0 {
		return newSnapshot(nil, nil), nil
	}

	headers := rows[0]
	recs := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i >= len(row) || row[i] == "" {
				continue
			}
			if n, err := strconv.ParseFloat(row[i], 64); err == nil {
				rec[h] = n
			} else {
				rec[h] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return newSnapshot(headers, recs), nil
}

func newSnapshot(headers []string, recs []Record) *Snapshot {
	visible := make([]string, 0, len(DefaultVisibleColumns))
	for _, col := range DefaultVisibleColumns {
		for _, h := range headers {
			if h == col {
				visible = append(visible, col)
				break
			}
		}
	}
	return &Snapshot{
		ID:             uuid.NewString(),
		Headers:        headers,
		VisibleHeaders: visible,
		Records:        recs,
		UploadedAt:     time.Now(),
	}
}
