package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Workbook writes the table into a spreadsheet sheet. Numeric cells are stored as numbers
// and empty cells are left blank.
type Workbook struct {
	file  *excelize.File
	sheet string
	rows  int
}

// NewWorkbook creates a workbook with a single sheet named sheet.
func NewWorkbook(sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = "Report"
	}
	f := excelize.NewFile()
	const defaultSheet = "Sheet1"
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	return &Workbook{file: f, sheet: sheet}, nil
}

// Clear implements Widget.
func (w *Workbook) Clear() error {
	for ; w.rows > 0; w.rows-- {
		if err := w.file.RemoveRow(w.sheet, 1); err != nil {
			return err
		}
	}
	return nil
}

// SetHeader implements Widget. The header always lands on the first row.
func (w *Workbook) SetHeader(cells []string) error {
	if err := w.writeRow(1, cells); err != nil {
		return err
	}
	if w.rows == 0 {
		w.rows = 1
	}
	return nil
}

// AppendRow implements Widget.
func (w *Workbook) AppendRow(cells []string) error {
	if w.rows == 0 {
		w.rows = 1
	}
	if err := w.writeRow(w.rows+1, cells); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Workbook) writeRow(row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		if i == 0 || c == "" {
			if c != "" {
				values[i] = c
			}
			continue
		}
		if f, err := strconv.ParseFloat(c, 64); err == nil {
			values[i] = f
		} else {
			values[i] = c
		}
	}
	return w.file.SetSheetRow(w.sheet, cell, &values)
}

// Rows reads back the sheet content, mostly for tests.
func (w *Workbook) Rows() ([][]string, error) {
	return w.file.GetRows(w.sheet)
}

// WriteTo writes the xlsx document to out.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

// SaveAs writes the xlsx document to path.
func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

// Close releases the underlying workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
