// Package history keeps the list of recently displayed streams in a sqlite
// database so a stream can be reopened without pasting its URL again.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"capframe/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS streams (
	url         TEXT PRIMARY KEY,
	platform    TEXT NOT NULL,
	embed_url   TEXT NOT NULL,
	last_opened INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS streams_last_opened ON streams(last_opened DESC);
`

// Store is a sqlite-backed history of displayed streams.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts an entry or moves an existing one to the top.
func (s *Store) Save(entry media.HistoryEntry) error {
	if entry.URL == "" {
		return errors.New("history entry has no URL")
	}
	if entry.LastOpened.IsZero() {
		entry.LastOpened = s.now()
	}

	_, err := s.db.Exec(`
		INSERT INTO streams (url, platform, embed_url, last_opened)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			platform = excluded.platform,
			embed_url = excluded.embed_url,
			last_opened = excluded.last_opened`,
		entry.URL, entry.Platform.String(), entry.EmbedURL, entry.LastOpened.UnixMilli())
	if err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Record saves a successfully displayed stream, stamped with the current time.
func (s *Store) Record(rawURL string, result media.ParseResult) error {
	return s.Save(media.HistoryEntry{
		URL:      rawURL,
		Platform: result.Platform,
		EmbedURL: result.EmbedURL,
	})
}

// Recent returns up to limit entries, most recently opened first.
// A non-positive limit returns everything.
func (s *Store) Recent(limit int) ([]media.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT url, platform, embed_url, last_opened
		FROM streams
		ORDER BY last_opened DESC, url
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var (
			e        media.HistoryEntry
			platform string
			opened   int64
		)
		if err := rows.Scan(&e.URL, &platform, &e.EmbedURL, &opened); err != nil {
			return nil, fmt.Errorf("reading history: %w", err)
		}
		e.Platform = media.ParsePlatform(platform)
		e.LastOpened = time.UnixMilli(opened)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Remove deletes the entry for url. Removing a missing entry is not an error.
func (s *Store) Remove(url string) error {
	if _, err := s.db.Exec(`DELETE FROM streams WHERE url = ?`, url); err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

// Clear deletes every entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM streams`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay creates one display line per entry.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, fmt.Sprintf("[%s] %s (%s)",
			e.Platform.DisplayName(), e.URL, e.LastOpened.Local().Format("2006-01-02 15:04")))
	}
	return items
}
