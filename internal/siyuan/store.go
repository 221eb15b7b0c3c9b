package siyuan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("siyuan: not found")

// Store is a Backend reading the kernel's SQLite index read-only.
type Store struct {
	db    *sql.DB
	path  string
	limit int
}

// OpenStore opens the index at path without write access.
func OpenStore(path string, limit int) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("siyuan: open %s: %w", path, err)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Store{db: db, path: path, limit: limit}, nil
}

// Path returns the database file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Search runs a substring match over block content.
func (s *Store) Search(ctx context.Context, query string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, box, root_id, content, path, hpath FROM blocks WHERE content LIKE ? ESCAPE '\' LIMIT ?`,
		likePattern(query), s.limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.Box, &b.RootID, &b.Content, &b.Path, &b.HPath); err != nil {
			return nil, err
		}
		results = append(results, ResultFromBlock(b))
	}
	return results, rows.Err()
}

// Document loads the root block id and its top-level children in index order.
func (s *Store) Document(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT id, box, hpath FROM blocks WHERE id = ? AND type = 'd'`, id,
	).Scan(&doc.ID, &doc.BoxID, &doc.HPath)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: document %s", ErrNotFound, id)
	}
	if err != nil {
		return Document{}, err
	}
	doc.Title = TitleFromHPath(doc.HPath)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, root_id, type, subtype, content, markdown FROM blocks
		 WHERE root_id = ? AND parent_id = ? ORDER BY rowid`, id, id,
	)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.ParentID, &b.RootID, &b.Type, &b.Subtype, &b.Content, &b.Markdown); err != nil {
			return Document{}, err
		}
		b.Box = doc.BoxID
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, rows.Err()
}
