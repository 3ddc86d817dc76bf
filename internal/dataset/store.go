package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"textqa-enrich/internal/types"
)

// ErrNotFound is returned when the backing file of a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store reads and writes a whole dataset. Save always replaces the previous version.
type Store interface {
	Load(ctx context.Context, path string) (types.Dataset, error)
	Save(ctx context.Context, path string, ds types.Dataset) error
}

// ForPath picks a store from the file extension.
func ForPath(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVStore{}, nil
	case ".xlsx":
		return XLSXStore{}, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLiteStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .csv, .xlsx or .db)", filepath.Ext(path))
	}
}

// Load reads the dataset at path using the store matching its extension.
func Load(ctx context.Context, path string) (types.Dataset, error) {
	s, err := ForPath(path)
	if err != nil {
		return types.Dataset{}, err
	}
	return s.Load(ctx, path)
}

// Save writes ds to path using the store matching its extension.
func Save(ctx context.Context, path string, ds types.Dataset) error {
	s, err := ForPath(path)
	if err != nil {
		return err
	}
	return s.Save(ctx, path, ds)
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// replaceFile writes through a temp file in the same directory and renames it over path,
// so readers never observe a half-written dataset.
func replaceFile(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	_ = f.Close()
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
