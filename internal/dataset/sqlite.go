package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
	"textqa-enrich/internal/types"
)

const sqliteTable = "rows"

// SQLiteStore keeps a dataset in a single table. Unlike the tabular files it stores absence
// as NULL, so an empty question and a missing one stay distinct.
type SQLiteStore struct{}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func (SQLiteStore) Load(ctx context.Context, path string) (types.Dataset, error) {
	if err := checkExists(path); err != nil {
		return types.Dataset{}, err
	}
	db, err := openSQLite(path)
	if err != nil {
		return types.Dataset{}, err
	}
	defer db.Close()

	present, err := tableColumns(ctx, db)
	if err != nil {
		return types.Dataset{}, err
	}
	if len(present) == 0 {
		return types.Dataset{}, fmt.Errorf("table %q not found in %s", sqliteTable, path)
	}
	var cols []string
	for _, c := range types.AllColumns {
		if present[c] {
			cols = append(cols, c)
		}
	}
	ds := types.Dataset{Columns: cols}
	if len(cols) == 0 {
		return ds, nil
	}

	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY idx", strings.Join(cols, ", "), sqliteTable)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		strs := make([]sql.NullString, len(cols))
		var conf sql.NullFloat64
		dest := make([]any, len(cols))
		for i, c := range cols {
			if c == types.ColAnswerConfidence {
				dest[i] = &conf
			} else {
				dest[i] = &strs[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return types.Dataset{}, fmt.Errorf("scan row %d: %w", len(ds.Rows)+1, err)
		}
		var row types.EnrichedRow
		for i, c := range cols {
			s := strs[i]
			var p *string
			if s.Valid {
				p = types.StrPtr(s.String)
			}
			switch c {
			case types.ColText:
				row.Text = s.String
			case types.ColSummary:
				row.Summary = s.String
			case types.ColTextEN:
				row.TextEN = p
			case types.ColSummaryEN:
				row.SummaryEN = p
			case types.ColQuestion:
				row.Question = p
			case types.ColAnswer:
				row.Answer = p
			case types.ColAnswerConfidence:
				if conf.Valid {
					row.AnswerConfidence = types.FloatPtr(conf.Float64)
				}
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return types.Dataset{}, fmt.Errorf("read rows: %w", err)
	}
	return ds, nil
}

func tableColumns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", sqliteTable))
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (SQLiteStore) Save(ctx context.Context, path string, ds types.Dataset) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+sqliteTable); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	defs := []string{"idx INTEGER PRIMARY KEY"}
	for _, c := range ds.Columns {
		typ := "TEXT"
		if c == types.ColAnswerConfidence {
			typ = "REAL"
		}
		defs = append(defs, c+" "+typ)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", sqliteTable, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	names := append([]string{"idx"}, ds.Columns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sqliteTable, strings.Join(names, ", "), marks))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range ds.Rows {
		args := make([]any, 0, len(names))
		args = append(args, i)
		for _, c := range ds.Columns {
			args = append(args, sqlValue(row, c))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sqlValue(row types.EnrichedRow, col string) any {
	if col == types.ColAnswerConfidence {
		if row.AnswerConfidence == nil {
			return nil
		}
		return *row.AnswerConfidence
	}
	v, ok := cellValue(row, col)
	if !ok {
		return nil
	}
	return v
}
