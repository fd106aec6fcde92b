// Package db provides PostgreSQL access for extracted jobs, job embeddings and resumes.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/bestintern/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := logger.Component("db")

	log.Info().Msg("connected to database")
	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this package reads and writes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Row is a single table row keyed by column name.
type Row = map[string]any

// InsertRow inserts data into table and returns the stored row, including
// database defaults such as id and created_at.
func (db *DB) InsertRow(ctx context.Context, table string, data map[string]any) (Row, error) {
	query, args, err := buildInsert(table, data)
	if err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert row into %s: %w", table, err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to insert row into %s: %w", table, err)
	}
	normalizeRow(row)

	log := logger.Component("db")

	log.Info().Str("table", table).Any("id", row["id"]).Msg("inserted row")
	return row, nil
}

// GetRows selects columns from table. A filter whose value is a slice
// matches any of its elements; any other value must match exactly.
// Empty columns, or a single "*", selects every column.
func (db *DB) GetRows(ctx context.Context, table string, columns []string, filters map[string]any) ([]Row, error) {
	query, args := buildSelect(table, columns, filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from %s: %w", table, err)
	}
	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from %s: %w", table, err)
	}
	for _, row := range result {
		normalizeRow(row)
	}

	log := logger.Component("db")

	log.Debug().Str("table", table).Int("rows", len(result)).Msg("fetched rows")
	return result, nil
}

func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

func buildInsert(table string, data map[string]any) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no columns to insert into %s", table)
	}

	columns := sortedKeys(data)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = data[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		tableIdentifier(table).Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args, nil
}

func buildSelect(table string, columns []string, filters map[string]any) (string, []any) {
	selected := "*"
	if len(columns) > 0 && !(len(columns) == 1 && columns[0] == "*") {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = pgx.Identifier{col}.Sanitize()
		}
		selected = strings.Join(quoted, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", selected, tableIdentifier(table).Sanitize())
	if len(filters) == 0 {
		return query, nil
	}

	keys := sortedKeys(filters)
	conditions := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		op := "= $%d"
		if isList(filters[key]) {
			op = "= ANY($%d)"
		}
		conditions[i] = pgx.Identifier{key}.Sanitize() + " " + fmt.Sprintf(op, i+1)
		args[i] = filters[key]
	}
	return query + " WHERE " + strings.Join(conditions, " AND "), args
}

// isList reports whether v is a slice or array other than raw bytes or a UUID.
func isList(v any) bool {
	switch v.(type) {
	case nil, []byte, uuid.UUID:
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// normalizeRow converts raw uuid bytes into uuid.UUID so rows print readably.
func normalizeRow(row Row) {
	for k, v := range row {
		if b, ok := v.([16]byte); ok {
			row[k] = uuid.UUID(b)
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
