// Package pagecache stores fetched page bodies in a sqlite database
// keyed by URL. a warmed cache lets the collector re-run its parse
// offline, which keeps re-scrapes cheap and parser changes testable
// against real pages.
package pagecache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"leavex-backend/internal/pagecache/db"
	"leavex-backend/lib/sqliteutil"
)

var ErrMiss = errors.New("page not cached")

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	sqlite, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		return nil, err
	}
	return &Cache{db: sqlite}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	row := c.db.QueryRowContext(
		ctx,
		"SELECT body FROM pages WHERE url = ?",
		url,
	)
	var body []byte
	err := row.Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Cache) Put(ctx context.Context, url string, body []byte) error {
	_, err := c.db.ExecContext(
		ctx,
		`INSERT INTO pages (url, fetched_at, body) VALUES (?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET fetched_at = excluded.fetched_at, body = excluded.body`,
		url,
		time.Now().Unix(),
		body,
	)
	return err
}
