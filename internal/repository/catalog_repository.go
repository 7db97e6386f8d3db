package repository

import (
	"context"
	"database/sql"
)

// Column describes one column of a browsed table, read from
// information_schema.
type Column struct {
	Name     string  `json:"name"`
	DataType string  `json:"data_type"`
	Nullable bool    `json:"nullable"`
	Key      string  `json:"key"`
	Default  *string `json:"default"`
}

// Index describes one index of a browsed table.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// CatalogRepo reads table metadata from information_schema for the admin
// data browser. Identifiers reaching this repo have already been validated
// and allowlisted by the schema-access guard; the queries themselves only
// ever bind identifiers as parameters, never interpolate them.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// Columns returns the table's column metadata in ordinal order. An empty
// result means the table does not exist in that schema.
func (r *CatalogRepo) Columns(ctx context.Context, schema, table string) ([]Column, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT column_name, data_type, is_nullable, column_key, column_default
		 FROM information_schema.columns
		 WHERE table_schema = ? AND table_name = ?
		 ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []Column
	for rows.Next() {
		var (
			c        Column
			nullable string
			def      sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.DataType, &nullable, &c.Key, &def); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		if def.Valid {
			c.Default = &def.String
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// Indexes returns the table's indexes with their column lists.
func (r *CatalogRepo) Indexes(ctx context.Context, schema, table string) ([]Index, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT index_name, column_name, non_unique
		 FROM information_schema.statistics
		 WHERE table_schema = ? AND table_name = ?
		 ORDER BY index_name, seq_in_index`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var (
		out     []Index
		current *Index
	)
	for rows.Next() {
		var (
			name      string
			column    string
			nonUnique int
		)
		if err := rows.Scan(&name, &column, &nonUnique); err != nil {
			return nil, err
		}
		if current == nil || current.Name != name {
			out = append(out, Index{Name: name, Unique: nonUnique == 0})
			current = &out[len(out)-1]
		}
		current.Columns = append(current.Columns, column)
	}
	return out, rows.Err()
}
