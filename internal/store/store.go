package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides persistence for index records. The search path only ever
// uses Match; writes happen exclusively in the indexing pipeline.
type Store interface {
	// Get returns the record for a path, or nil if it isn't indexed.
	Get(path string) (*IndexRecord, error)
	// Upsert inserts or replaces the record for its path.
	Upsert(r IndexRecord) error
	// Match returns up to limit records whose keywords or description
	// contain term as a case-insensitive substring. No ordering guarantee.
	Match(term string, limit int) ([]IndexRecord, error)
	// List returns summaries for all records, ordered by path.
	List() ([]RecordSummary, error)
	// DeleteAll removes every record.
	DeleteAll() error
	// GetMeta returns a metadata value by key, or "" if not set.
	GetMeta(key string) (string, error)
	// SetMeta sets a metadata key-value pair.
	SetMeta(key, value string) error
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(path string) (*IndexRecord, error) {
	var r IndexRecord
	err := s.db.QueryRow(
		"SELECT path, content, keywords, description, created_at, updated_at FROM records WHERE path = ?",
		path,
	).Scan(&r.Path, &r.Content, &r.Keywords, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) Upsert(r IndexRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO records (path, content, keywords, description) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content = excluded.content,
			keywords = excluded.keywords,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP`,
		r.Path, r.Content, r.Keywords, r.Description,
	)
	return err
}

func (s *SQLiteStore) Match(term string, limit int) ([]IndexRecord, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.Query(`
		SELECT path, content, keywords, description, created_at, updated_at
		FROM records
		WHERE keywords LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []IndexRecord
	for rows.Next() {
		var r IndexRecord
		if err := rows.Scan(&r.Path, &r.Content, &r.Keywords, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) List() ([]RecordSummary, error) {
	rows, err := s.db.Query("SELECT path, keywords, description FROM records ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RecordSummary
	for rows.Next() {
		var r RecordSummary
		if err := rows.Scan(&r.Path, &r.Keywords, &r.Description); err != nil {
			return nil, err
		}
		summaries = append(summaries, r)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) DeleteAll() error {
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// escapeLike escapes the LIKE wildcards in a search term so user input
// matches literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
