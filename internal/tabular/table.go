package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "college-finder/internal/common/errors"
)

// Table is the first sheet of an uploaded file: a header row and one map
// per data row keyed by header text.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Sample returns at most n leading rows.
func (t *Table) Sample(n int) []map[string]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// ReadTable decodes .xlsx or .csv data, first sheet only.
func ReadTable(filename string, data []byte) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSXRecords(data)
	case ".csv":
		records, err = readCSVRecords(data)
	case ".xls":
		return nil, apperrors.NewFileFormatError(
			"Legacy .xls files are not supported. Please re-save the file as .xlsx or .csv.", nil)
	default:
		return nil, apperrors.NewFileFormatError(
			"Unsupported file type. Please upload an .xlsx or .csv file.", nil)
	}
	if err != nil {
		return nil, apperrors.NewFileFormatError("Could not read the file. Please check that it is a valid spreadsheet.", err)
	}

	return toTable(records), nil
}

func readXLSXRecords(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSVRecords(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func toTable(records [][]string) *Table {
	t := &Table{Headers: []string{}, Rows: []map[string]string{}}
	if len(records) == 0 {
		return t
	}

	for _, h := range records[0] {
		t.Headers = append(t.Headers, strings.TrimSpace(h))
	}

	for _, rec := range records[1:] {
		row := make(map[string]string, len(t.Headers))
		blank := true
		for i, h := range t.Headers {
			if h == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if !blank {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}
