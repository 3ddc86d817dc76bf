package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"textqa-enrich/internal/types"
)

// CSVStore keeps a dataset as a CSV file with a header row.
type CSVStore struct{}

func (CSVStore) Load(ctx context.Context, path string) (types.Dataset, error) {
	if err := checkExists(path); err != nil {
		return types.Dataset{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) (types.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return types.Dataset{}, fmt.Errorf("no header row")
	}
	if err != nil {
		return types.Dataset{}, fmt.Errorf("read header: %w", err)
	}
	idx := columnIndex(header)
	ds := types.Dataset{Columns: presentColumns(idx)}
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return types.Dataset{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.Dataset{}, fmt.Errorf("read row %d: %w", n, err)
		}
		row, err := rowFromCells(idx, rec, n)
		if err != nil {
			return types.Dataset{}, err
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func (CSVStore) Save(ctx context.Context, path string, ds types.Dataset) error {
	return replaceFile(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		if err := writeCSV(ctx, f, ds); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
}

func writeCSV(ctx context.Context, w io.Writer, ds types.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(ds.Columns))
	for i, row := range ds.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, col := range ds.Columns {
			rec[j], _ = cellValue(row, col)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
