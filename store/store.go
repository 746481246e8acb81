// Package store is the service's local audit ledger: document snapshots and
// the history of scoring runs. The CMS stays the system of record; this
// ledger only mirrors what was audited and when.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// Record is a stored document snapshot plus audit bookkeeping. Document is
// nil on listings, which only carry the summary columns.
type Record struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Score       int               `json:"score"`
	WordCount   int               `json:"wordCount"`
	Status      string            `json:"workflowStatus"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	LastAuditAt *time.Time        `json:"lastAuditAt,omitempty"`
	Document    *content.Document `json:"document,omitempty"`
}

// AuditRun is one scoring pass over a stored document.
type AuditRun struct {
	ID         int64           `json:"id"`
	DocumentID string          `json:"documentId"`
	Score      int             `json:"score"`
	Report     analyzer.Report `json:"report"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Overview aggregates the ledger for the statistics endpoint.
type Overview struct {
	Documents    int            `json:"documents"`
	AuditRuns    int            `json:"auditRuns"`
	AverageScore float64        `json:"averageScore"`
	ByStatus     map[string]int `json:"byStatus"`
}

// DB wraps the SQLite database connection and provides ledger operations.
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		document TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		word_count INTEGER NOT NULL DEFAULT 0,
		workflow_status TEXT NOT NULL DEFAULT 'Draft',
		updated_at DATETIME NOT NULL,
		last_audit_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_documents_slug ON documents(slug);
	CREATE INDEX IF NOT EXISTS idx_documents_last_audit_at ON documents(last_audit_at);

	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL REFERENCES documents(id),
		score INTEGER NOT NULL,
		report TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_runs_document_id ON audit_runs(document_id, created_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveDocument inserts or updates a snapshot. A missing ID gets a fresh
// UUID; the record is updated in place with it.
func (db *DB) SaveDocument(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	docJSON, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	query := `
	INSERT INTO documents (id, slug, title, document, score, word_count, workflow_status, updated_at, last_audit_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		slug = excluded.slug,
		title = excluded.title,
		document = excluded.document,
		score = excluded.score,
		word_count = excluded.word_count,
		workflow_status = excluded.workflow_status,
		updated_at = excluded.updated_at,
		last_audit_at = excluded.last_audit_at
	`

	_, err = db.conn.ExecContext(ctx, query,
		rec.ID,
		rec.Slug,
		rec.Title,
		string(docJSON),
		rec.Score,
		rec.WordCount,
		rec.Status,
		rec.UpdatedAt,
		rec.LastAuditAt,
	)
	return err
}

const recordColumns = `id, slug, title, document, score, word_count, workflow_status, updated_at, last_audit_at`

func scanRecord(row *sql.Row) (*Record, error) {
	rec := &Record{}
	var docJSON string
	var lastAudit sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.Slug,
		&rec.Title,
		&docJSON,
		&rec.Score,
		&rec.WordCount,
		&rec.Status,
		&rec.UpdatedAt,
		&lastAudit,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Document = &content.Document{}
	if err := json.Unmarshal([]byte(docJSON), rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if lastAudit.Valid {
		rec.LastAuditAt = &lastAudit.Time
	}
	return rec, nil
}

// GetDocument retrieves a snapshot by ID.
func (db *DB) GetDocument(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM documents WHERE id = ?`
	return scanRecord(db.conn.QueryRowContext(ctx, query, id))
}

// GetDocumentBySlug retrieves the most recently updated snapshot carrying
// the slug. Slugs are unique CMS-side; the ledger does not enforce it.
func (db *DB) GetDocumentBySlug(ctx context.Context, slug string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM documents WHERE slug = ? ORDER BY updated_at DESC LIMIT 1`
	return scanRecord(db.conn.QueryRowContext(ctx, query, slug))
}

// ListDocuments returns summaries of every snapshot, newest first. Document
// bodies are not loaded.
func (db *DB) ListDocuments(ctx context.Context) ([]*Record, error) {
	query := `
	SELECT id, slug, title, score, word_count, workflow_status, updated_at, last_audit_at
	FROM documents ORDER BY updated_at DESC
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec := &Record{}
		var lastAudit sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.Slug,
			&rec.Title,
			&rec.Score,
			&rec.WordCount,
			&rec.Status,
			&rec.UpdatedAt,
			&lastAudit,
		); err != nil {
			return nil, err
		}
		if lastAudit.Valid {
			rec.LastAuditAt = &lastAudit.Time
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteDocument removes a snapshot and its audit history.
func (db *DB) DeleteDocument(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_runs WHERE document_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SaveAuditRun appends a scoring run and rolls the score and audit time
// onto the document row, in one transaction.
func (db *DB) SaveAuditRun(ctx context.Context, run *AuditRun) error {
	reportJSON, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO audit_runs (document_id, score, report, created_at) VALUES (?, ?, ?, ?)`,
		run.DocumentID, run.Score, string(reportJSON), run.CreatedAt,
	)
	if err != nil {
		return err
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET score = ?, last_audit_at = ? WHERE id = ?`,
		run.Score, run.CreatedAt, run.DocumentID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListAuditRuns returns a document's runs, newest first.
func (db *DB) ListAuditRuns(ctx context.Context, documentID string, limit int) ([]*AuditRun, error) {
	query := `
	SELECT id, document_id, score, report, created_at
	FROM audit_runs WHERE document_id = ? ORDER BY created_at DESC, id DESC LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, documentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*AuditRun
	for rows.Next() {
		run := &AuditRun{}
		var reportJSON string
		if err := rows.Scan(&run.ID, &run.DocumentID, &run.Score, &reportJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reportJSON), &run.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StaleDocuments returns snapshots never audited or last audited before the
// cutoff, oldest audit first. The scheduler sweeps these daily.
func (db *DB) StaleDocuments(ctx context.Context, cutoff time.Time) ([]*Record, error) {
	query := `
	SELECT id, slug, title, score, word_count, workflow_status, updated_at, last_audit_at
	FROM documents
	WHERE last_audit_at IS NULL OR last_audit_at < ?
	ORDER BY last_audit_at ASC
	`

	rows, err := db.conn.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec := &Record{}
		var lastAudit sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.Slug,
			&rec.Title,
			&rec.Score,
			&rec.WordCount,
			&rec.Status,
			&rec.UpdatedAt,
			&lastAudit,
		); err != nil {
			return nil, err
		}
		if lastAudit.Valid {
			rec.LastAuditAt = &lastAudit.Time
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Summary aggregates ledger totals for the statistics endpoint.
func (db *DB) Summary(ctx context.Context) (*Overview, error) {
	ov := &Overview{ByStatus: make(map[string]int)}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM documents`,
	).Scan(&ov.Documents, &ov.AverageScore)
	if err != nil {
		return nil, err
	}

	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_runs`,
	).Scan(&ov.AuditRuns); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT workflow_status, COUNT(*) FROM documents GROUP BY workflow_status`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		ov.ByStatus[status] = count
	}
	return ov, rows.Err()
}
