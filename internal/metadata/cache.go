package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Cache is a SQLite-backed store of provider responses, including negative
// ("not found") answers, with a TTL. It replaces ad hoc in-process
// memoization with something inspectable and shared across restarts.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewCache opens or creates the cache database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewCache(dbPath string, ttl time.Duration) (*Cache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS movie_details (
		ref TEXT PRIMARY KEY,
		not_found INTEGER NOT NULL DEFAULT 0,
		poster_url TEXT,
		title TEXT,
		year TEXT,
		genre TEXT,
		rating TEXT,
		plot TEXT,
		imdb_id TEXT,
		fetched_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_movie_details_fetched_at ON movie_details(fetched_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached answer for ref. found reports whether a fresh entry
// exists; a found entry with nil details is a cached provider miss.
func (c *Cache) Get(ctx context.Context, ref Ref) (details *models.MovieDetails, found bool, err error) {
	var (
		notFound  int
		d         models.MovieDetails
		fetchedAt time.Time
	)
	err = c.db.QueryRowContext(ctx,
		`SELECT not_found, poster_url, title, year, genre, rating, plot, imdb_id, fetched_at
		 FROM movie_details WHERE ref = ?`, ref.Key(),
	).Scan(&notFound, &d.PosterURL, &d.Title, &d.Year, &d.Genre, &d.Rating, &d.Plot, &d.IMDbID, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(fetchedAt) > c.ttl {
		return nil, false, nil
	}
	if notFound != 0 {
		return nil, true, nil
	}
	return &d, true, nil
}

// Put stores the answer for ref, overwriting any previous entry. A nil
// details records a provider miss.
func (c *Cache) Put(ctx context.Context, ref Ref, details *models.MovieDetails) error {
	notFound := 0
	d := models.MovieDetails{}
	if details == nil {
		notFound = 1
	} else {
		d = *details
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO movie_details (ref, not_found, poster_url, title, year, genre, rating, plot, imdb_id, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(ref) DO UPDATE SET
			not_found = excluded.not_found,
			poster_url = excluded.poster_url,
			title = excluded.title,
			year = excluded.year,
			genre = excluded.genre,
			rating = excluded.rating,
			plot = excluded.plot,
			imdb_id = excluded.imdb_id,
			fetched_at = excluded.fetched_at`,
		ref.Key(), notFound, d.PosterURL, d.Title, d.Year, d.Genre, d.Rating, d.Plot, d.IMDbID, time.Now(),
	)
	return err
}

// Count returns the number of cached entries, fresh or stale.
func (c *Cache) Count(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movie_details`).Scan(&count)
	return count, err
}

// Prune deletes entries older than the TTL. No-op when the TTL is zero.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM movie_details WHERE fetched_at < ?`, time.Now().Add(-c.ttl))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
