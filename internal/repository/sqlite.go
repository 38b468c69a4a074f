// Package repository provides the persistent document/history stores.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/docqa-labs/docqa/internal/domain"
)

// SQLiteStore implements domain.DocumentStore and domain.HistoryStore on a
// single SQLite file. Every conversation turn is its own row, so appending
// a turn is a single INSERT and concurrent appends for one user cannot lose
// updates.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Let concurrent writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_size INTEGER NOT NULL,
			upload_timestamp DATETIME NOT NULL,
			total_chunks INTEGER NOT NULL,
			total_pages INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			chunk_text TEXT NOT NULL,
			page_number INTEGER,
			upload_timestamp DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			refs TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user ON turns(user_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveMetadata stores one document's metadata.
func (s *SQLiteStore) SaveMetadata(ctx context.Context, meta domain.DocumentMetadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, filename, file_type, file_size, upload_timestamp, total_chunks, total_pages)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, meta.DocumentID, meta.Filename, meta.FileType, meta.FileSize,
		meta.UploadTimestamp, meta.TotalChunks, meta.TotalPages)
	return err
}

// SaveChunks stores a document's chunks.
func (s *SQLiteStore) SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, filename, chunk_text, page_number, upload_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.DocumentID,
			chunk.Filename, chunk.ChunkText, chunk.PageNumber, chunk.UploadTimestamp); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListDocuments returns all document metadata, oldest upload first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]domain.DocumentMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, filename, file_type, file_size, upload_timestamp, total_chunks, total_pages
		FROM documents ORDER BY upload_timestamp ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.DocumentMetadata
	for rows.Next() {
		var meta domain.DocumentMetadata
		var totalPages sql.NullInt64
		if err := rows.Scan(&meta.DocumentID, &meta.Filename, &meta.FileType,
			&meta.FileSize, &meta.UploadTimestamp, &meta.TotalChunks, &totalPages); err != nil {
			return nil, err
		}
		if totalPages.Valid {
			meta.TotalPages = int(totalPages.Int64)
		}
		docs = append(docs, meta)
	}

	return docs, rows.Err()
}

// CountDocuments returns the number of stored documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// AppendTurn stores one conversation turn as a new row.
func (s *SQLiteStore) AppendTurn(ctx context.Context, userID string, turn domain.ConversationTurn) error {
	refsJSON, err := json.Marshal(turn.References)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO turns (user_id, question, answer, refs, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, turn.Question, turn.Answer, string(refsJSON), turn.Timestamp)
	return err
}

// RecentTurns returns up to limit most recent turns for the user, oldest
// first within the returned window.
func (s *SQLiteStore) RecentTurns(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, refs, created_at
		FROM turns WHERE user_id = ?
		ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var turn domain.ConversationTurn
		var refsJSON sql.NullString
		if err := rows.Scan(&turn.Question, &turn.Answer, &refsJSON, &turn.Timestamp); err != nil {
			return nil, err
		}
		if refsJSON.Valid && refsJSON.String != "" {
			if err := json.Unmarshal([]byte(refsJSON.String), &turn.References); err != nil {
				return nil, err
			}
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows came newest-first; flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// Clear wipes documents, chunks and conversation turns in one transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"documents", "chunks", "turns"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	return tx.Commit()
}
