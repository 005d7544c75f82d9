package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL DEFAULT '',
    metadata   TEXT NOT NULL DEFAULT '{}',
    embedding  BLOB,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS records_kind ON records(kind);
`

// Dataset is a SQLite-backed record store.
type Dataset struct {
	db *sql.DB

	mu     sync.RWMutex
	closed bool

	// now is overridable for deterministic tests.
	now func() time.Time
}

// Open creates or opens a dataset at the given file path.
func Open(path string) (*Dataset, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset: path is empty")
	}
	return open(path, false)
}

// OpenMemory opens a transient in-memory dataset, useful for tests and
// short-lived pipelines.
func OpenMemory() (*Dataset, error) {
	return open("file::memory:?mode=memory", true)
}

func open(dsn string, memory bool) (*Dataset, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("dataset: open: %w", err)
	}
	if memory {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dataset: ensure schema: %w", err)
	}
	return &Dataset{db: db, now: time.Now}, nil
}

// Close releases the underlying database. Further operations return ErrClosed.
func (d *Dataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

func (d *Dataset) guard() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

// Add inserts a record and returns its ID. When rec.ID is empty a UUID is
// generated. Adding an existing ID returns ErrDuplicateID.
func (d *Dataset) Add(ctx context.Context, rec Record) (string, error) {
	ids, err := d.AddBatch(ctx, []Record{rec})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddBatch inserts records in a single transaction and returns the assigned
// IDs in input order.
func (d *Dataset) AddBatch(ctx context.Context, recs []Record) ([]string, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records(id, kind, content, metadata, embedding, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("dataset: prepare: %w", err)
	}
	defer stmt.Close()

	now := d.now().UTC()
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		exists, err := d.existsTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("dataset: %w: %s", ErrDuplicateID, id)
		}
		meta, err := encodeMetadata(rec.Metadata)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, id, rec.Kind, rec.Content, meta,
			EncodeEmbedding(rec.Embedding), now.Unix(), now.Unix()); err != nil {
			return nil, fmt.Errorf("dataset: insert %s: %w", id, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("dataset: commit: %w", err)
	}
	return ids, nil
}

// Upsert inserts the record, replacing any existing record with the same ID.
// The ID must be set by the caller.
func (d *Dataset) Upsert(ctx context.Context, rec Record) error {
	if err := d.guard(); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("dataset: upsert: %w", ErrEmptyID)
	}
	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}
	now := d.now().UTC().Unix()
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO records(id, kind, content, metadata, embedding, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind = excluded.kind,
		   content = excluded.content,
		   metadata = excluded.metadata,
		   embedding = excluded.embedding,
		   updated_at = excluded.updated_at`,
		rec.ID, rec.Kind, rec.Content, meta, EncodeEmbedding(rec.Embedding), now, now)
	if err != nil {
		return fmt.Errorf("dataset: upsert %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (d *Dataset) Get(ctx context.Context, id string) (Record, error) {
	if err := d.guard(); err != nil {
		return Record{}, err
	}
	if id == "" {
		return Record{}, fmt.Errorf("dataset: get: %w", ErrEmptyID)
	}
	row := d.db.QueryRowContext(ctx,
		`SELECT id, kind, content, metadata, embedding, created_at, updated_at
		 FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("dataset: %w: %s", ErrNotFound, id)
	}
	return rec, err
}

// Update rewrites the content and merges metadata of an existing record.
// A nil value in meta deletes that key. Passing empty content keeps the
// stored content unchanged.
func (d *Dataset) Update(ctx context.Context, id, content string, meta Metadata) error {
	if err := d.guard(); err != nil {
		return err
	}
	rec, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if content != "" {
		rec.Content = content
	}
	if rec.Metadata == nil {
		rec.Metadata = Metadata{}
	}
	for k, v := range meta {
		if v == nil {
			delete(rec.Metadata, k)
			continue
		}
		rec.Metadata[k] = v
	}
	encoded, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`UPDATE records SET content = ?, metadata = ?, updated_at = ? WHERE id = ?`,
		rec.Content, encoded, d.now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("dataset: update %s: %w", id, err)
	}
	return nil
}

// Delete removes a record by ID. Deleting a missing record returns ErrNotFound.
func (d *Dataset) Delete(ctx context.Context, id string) error {
	if err := d.guard(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("dataset: delete: %w", ErrEmptyID)
	}
	res, err := d.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("dataset: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("dataset: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("dataset: %w: %s", ErrNotFound, id)
	}
	return nil
}

// Filter returns records matching the filter, ordered by ID for determinism.
func (d *Dataset) Filter(ctx context.Context, f Filter) ([]Record, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}

	query := `SELECT id, kind, content, metadata, embedding, created_at, updated_at FROM records`
	var args []any
	if f.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, f.Kind)
	}
	query += ` ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dataset: filter: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if !f.matches(rec) {
			continue
		}
		out = append(out, rec)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: filter: %w", err)
	}
	return out, nil
}

// All returns every record, ordered by ID.
func (d *Dataset) All(ctx context.Context) ([]Record, error) {
	return d.Filter(ctx, Filter{})
}

// Len reports the number of stored records.
func (d *Dataset) Len(ctx context.Context) (int, error) {
	if err := d.guard(); err != nil {
		return 0, err
	}
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("dataset: len: %w", err)
	}
	return n, nil
}

// Kinds returns the distinct record kinds present, sorted.
func (d *Dataset) Kinds(ctx context.Context) ([]string, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT kind FROM records ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("dataset: kinds: %w", err)
	}
	defer rows.Close()
	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("dataset: kinds: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec     Record
		meta    string
		blob    []byte
		created int64
		updated int64
	)
	if err := s.Scan(&rec.ID, &rec.Kind, &rec.Content, &meta, &blob, &created, &updated); err != nil {
		return Record{}, err
	}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return Record{}, fmt.Errorf("dataset: decode metadata for %s: %w", rec.ID, err)
		}
	}
	emb, err := DecodeEmbedding(blob)
	if err != nil {
		return Record{}, err
	}
	rec.Embedding = emb
	rec.CreatedAt = time.Unix(created, 0).UTC()
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, nil
}

func (d *Dataset) existsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("dataset: exists %s: %w", id, err)
	}
	return n > 0, nil
}

func encodeMetadata(m Metadata) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("dataset: encode metadata: %w", err)
	}
	return string(b), nil
}
