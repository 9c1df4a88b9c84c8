package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/memorise/testimony-explorer/pkg/config"
	"github.com/memorise/testimony-explorer/pkg/retry"
)

// requiredTables are the archive tables the explorer cannot run without.
// The archive file is produced ahead of time by the ingestion pipeline
// and is never written by this process.
var requiredTables = []string{
	"BioTable",
	"KeywordsTable",
	"QuestionsTable",
	"TestimonyTable",
	"TestimonyTable_fts",
}

// Client represents a read-only client over the testimony archive
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens the archive in read-only mode and verifies its schema.
// A missing or malformed archive is a fatal startup error.
func NewClient(cfg *config.ArchiveConfig) (*Client, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("archive file %s not accessible: %w", cfg.Path, err)
	}

	dsn := fmt.Sprintf(
		"file:%s?mode=ro&_pragma=busy_timeout(5000)&_pragma=cache_size(-50000)&_pragma=temp_store(2)",
		url.PathEscape(cfg.Path),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.Do(context.Background(), retry.DefaultConfig(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive after retries: %w", err)
	}

	c := &Client{db: db, path: cfg.Path}
	if err := c.verifySchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) verifySchema(ctx context.Context) error {
	const q = `SELECT COUNT(*) FROM sqlite_master WHERE name = ?`
	for _, table := range requiredTables {
		var n int
		if err := c.db.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
			return fmt.Errorf("failed to inspect archive schema: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("archive %s is missing table %s", c.path, table)
		}
	}
	return nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Path returns the archive file path
func (c *Client) Path() string {
	return c.path
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the archive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
