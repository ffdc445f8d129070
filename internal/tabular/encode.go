package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const ListDelimiter = ", "

// Sheet is a single-sheet export. Row cells line up with Headers.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Encode renders s as an .xlsx workbook.
func Encode(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := s.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil && len(s.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		_ = f.SetCellStyle(name, "A1", last, style)
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns "<label>_<YYYY-MM-DD>.xlsx".
func ExportFilename(label string, t time.Time) string {
	label = strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
	return fmt.Sprintf("%s_%s.xlsx", label, t.Format("2006-01-02"))
}

func JoinList(items []string) string {
	return strings.Join(items, ListDelimiter)
}
