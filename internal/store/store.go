// Package store handles SQLite persistence of the document library.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pacer-tui/pacer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the document library.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			added_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_added_at ON documents(added_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddDocument stores an imported text and returns its id.
func (s *Store) AddDocument(ctx context.Context, doc model.Document) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (title, body, word_count, added_at) VALUES (?, ?, ?, ?)`,
		doc.Title,
		doc.Body,
		doc.Words,
		doc.AddedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetDocument loads a document, including its body, by id.
func (s *Store) GetDocument(ctx context.Context, id int64) (model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, word_count, added_at FROM documents WHERE id = ?`, id)
	var doc model.Document
	var addedAt string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Body, &doc.Words, &addedAt); err != nil {
		if err == sql.ErrNoRows {
			return model.Document{}, fmt.Errorf("document %d not found", id)
		}
		return model.Document{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return model.Document{}, err
	}
	doc.AddedAt = parsed
	return doc, nil
}

// ListDocuments returns all documents without bodies, oldest first.
func (s *Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, word_count, added_at FROM documents ORDER BY added_at ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		var addedAt string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Words, &addedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, addedAt)
		if err != nil {
			return nil, err
		}
		doc.AddedAt = parsed
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document by id.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %d not found", id)
	}
	return nil
}
