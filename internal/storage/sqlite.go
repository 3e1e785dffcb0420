package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDocumentName is the row holding the budget document.
const DefaultDocumentName = "budget"

// SQLiteBlob keeps the document as a single row of the documents table.
type SQLiteBlob struct {
	db   *sql.DB
	name string
}

func NewSQLiteBlob(dbPath string) (*SQLiteBlob, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteBlob{db: db, name: DefaultDocumentName}, nil
}

func (b *SQLiteBlob) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *SQLiteBlob) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, b.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document %s: %w", b.name, err)
	}
	return []byte(body), nil
}

func (b *SQLiteBlob) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		b.name, string(data))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", b.name, err)
	}

	slog.DebugContext(ctx, "Document saved to SQLite", "name", b.name, "size", len(data))
	return nil
}

// Ping reports whether the database is reachable.
func (b *SQLiteBlob) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}
