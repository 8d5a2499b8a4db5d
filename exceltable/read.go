package exceltable

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet holds the cell strings of an Excel sheet
// with the first non empty row as column titles.
type Sheet struct {
	// Name of the sheet
	Name string
	// Columns are the titles from the first row
	Columns []string
	// Rows are the rows after the title row.
	// Rows may be shorter than Columns.
	Rows [][]string
}

// Records returns one record per row
// mapping the column titles to the cell strings.
// Missing cells are nil.
func (s *Sheet) Records() ([]map[string]any, error) {
	for i, title := range s.Columns {
		if title == "" {
			return nil, fmt.Errorf("sheet %q: empty title of column %d", s.Name, i)
		}
	}
	records := make([]map[string]any, len(s.Rows))
	for i, row := range s.Rows {
		record := make(map[string]any, len(s.Columns))
		for col, title := range s.Columns {
			if col < len(row) {
				record[title] = row[col]
			} else {
				record[title] = nil
			}
		}
		records[i] = record
	}
	return records, nil
}

// ReadFirstSheet reads the first sheet from an Excel file provided via io.Reader.
//
// Empty rows and columns are removed from the edges of the data range.
// If rawCellStrings is true, cell values are returned without
// the number format of the cell applied.
//
// Returns ErrEmptySheet if the first sheet has no data after cleanup.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool) (sheet *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
	}
	return readSheet(f, name, rawCellStrings)
}

// Read reads all non empty sheets from an Excel file provided via io.Reader.
// See ReadFirstSheet.
func Read(reader io.Reader, rawCellStrings bool) (sheets []*Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func readSheet(f *excelize.File, name string, rawCellStrings bool) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = trimEmptyRows(rows)
	rows, numCols := trimEmptyColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, name)
	}
	columns := rows[0]
	if len(columns) < numCols {
		columns = append(columns, make([]string, numCols-len(columns))...)
	}
	return &Sheet{Name: name, Columns: columns, Rows: rows[1:]}, nil
}

func isEmptyRow(row []string) bool {
	for _, s := range row {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// trimEmptyRows removes rows with only empty cells
// from the top and bottom.
func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// trimEmptyColumns removes columns with only empty cells
// from the left and right and returns the number of remaining columns.
func trimEmptyColumns(rows [][]string) ([][]string, int) {
	left, right := -1, 0
	for _, row := range rows {
		for col, s := range row {
			if strings.TrimSpace(s) == "" {
				continue
			}
			if left < 0 || col < left {
				left = col
			}
			right = max(right, col+1)
		}
	}
	if left < 0 {
		return nil, 0
	}
	trimmed := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > right {
			row = row[:right]
		}
		if len(row) > left {
			trimmed[i] = row[left:]
		} else {
			trimmed[i] = nil
		}
	}
	return trimmed, right - left
}
