package dataset

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"textqa-enrich/internal/types"
)

const xlsxSheet = "Sheet1"

// ErrCellTooLong is returned when a value does not fit in one spreadsheet cell.
var ErrCellTooLong = errors.New("value too long for an xlsx cell")

// XLSXStore keeps a dataset on the first sheet of a workbook, header in row 1.
type XLSXStore struct{}

func (XLSXStore) Load(ctx context.Context, path string) (types.Dataset, error) {
	if err := checkExists(path); err != nil {
		return types.Dataset{}, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return types.Dataset{}, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return types.Dataset{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return types.Dataset{}, fmt.Errorf("no header row")
	}
	idx := columnIndex(rows[0])
	ds := types.Dataset{Columns: presentColumns(idx)}
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return types.Dataset{}, err
		}
		// A blank row is still a row; position is the only address.
		row, err := rowFromCells(idx, r, i)
		if err != nil {
			return types.Dataset{}, err
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func (XLSXStore) Save(ctx context.Context, path string, ds types.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for j, col := range ds.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheet, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, row := range ds.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, col := range ds.Columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if col == types.ColAnswerConfidence {
				if row.AnswerConfidence != nil {
					err = f.SetCellFloat(xlsxSheet, cell, *row.AnswerConfidence, -1, 64)
				}
			} else if v, ok := cellValue(row, col); ok {
				// excelize truncates longer cells without reporting it
				if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
					return fmt.Errorf("write row %d: %s has %d characters, xlsx cells hold at most %d: %w",
						i+1, col, n, excelize.TotalCellChars, ErrCellTooLong)
				}
				err = f.SetCellStr(xlsxSheet, cell, v)
			}
			if err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}
	return replaceFile(path, func(tmp string) error {
		if err := f.SaveAs(tmp); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		return nil
	})
}
