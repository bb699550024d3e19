// Package postgres is the storage gateway: it owns the database connection
// for the process lifetime, bootstraps the schema, and appends one row per
// completed measurement cycle.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"speedtest-monitor/internal/domain"
)

const (
	createTableStatement = `
CREATE TABLE IF NOT EXISTS speed_tests (
    id SERIAL PRIMARY KEY,
    timestamp TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    download_mbps NUMERIC(10,2) NOT NULL,
    upload_mbps NUMERIC(10,2) NOT NULL,
    ping_ms NUMERIC(10,2) NOT NULL,
    server_name VARCHAR(255),
    server_location VARCHAR(255),
    server_sponsor VARCHAR(255)
)`
	timestampIndexStatement = `
CREATE INDEX IF NOT EXISTS idx_speed_tests_timestamp
ON speed_tests (timestamp DESC)`

	insertStatement = `
INSERT INTO speed_tests (download_mbps, upload_mbps, ping_ms, server_name, server_location, server_sponsor)
VALUES ($1, $2, $3, $4, $5, $6)`
	insertWithTimestampStatement = `
INSERT INTO speed_tests (timestamp, download_mbps, upload_mbps, ping_ms, server_name, server_location, server_sponsor)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	latestStatement = `
SELECT timestamp, download_mbps, upload_mbps, ping_ms, server_name, server_location, server_sponsor
FROM speed_tests
ORDER BY timestamp DESC
LIMIT $1`
)

// Config contains the connection parameters for the relational store.
type Config struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Gateway holds the single long-lived database connection.
type Gateway struct {
	db        *sql.DB
	closeOnce sync.Once
}

// New wraps an already-open database handle. Used by Connect and by tests.
func New(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

// Connect opens the connection described by cfg and validates it with a
// bounded ping. A failure here is fatal to startup: nothing can be stored
// without the connection.
func Connect(ctx context.Context, cfg Config) (*Gateway, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open connection: %w", err)
	}

	// One logical owner, one connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	return New(db), nil
}

// BuildDSN constructs a postgres:// connection string from discrete values.
func BuildDSN(cfg Config) (string, error) {
	if cfg.Host == "" {
		return "", errors.New("storage: database host is required")
	}
	if cfg.User == "" {
		return "", errors.New("storage: database user is required")
	}
	if cfg.Name == "" {
		return "", errors.New("storage: database name is required")
	}

	port := cfg.Port
	if port == "" {
		port = "5432"
	}

	connectionURL := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, port),
		Path:   "/" + cfg.Name,
		User:   url.UserPassword(cfg.User, cfg.Password),
	}

	query := connectionURL.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	connectionURL.RawQuery = query.Encode()

	return connectionURL.String(), nil
}

// EnsureSchema creates the measurement table and its timestamp index if they
// do not exist. Safe to call on every startup.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createTableStatement, timestampIndexStatement} {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: ensure schema: %w", err)
		}
	}
	return nil
}

// Insert appends one measurement inside a single transaction. Empty server
// metadata is stored as NULL; a zero timestamp lets the store assign one.
func (g *Gateway) Insert(ctx context.Context, m domain.Measurement) error {
	if err := m.Validate(); err != nil {
		return &domain.WriteError{Err: err}
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.WriteError{Err: fmt.Errorf("begin transaction: %w", err)}
	}

	if m.Timestamp.IsZero() {
		_, err = tx.ExecContext(ctx, insertStatement,
			m.DownloadMbps, m.UploadMbps, m.PingMs,
			nullable(m.ServerName), nullable(m.ServerLocation), nullable(m.ServerSponsor))
	} else {
		_, err = tx.ExecContext(ctx, insertWithTimestampStatement,
			m.Timestamp.UTC(),
			m.DownloadMbps, m.UploadMbps, m.PingMs,
			nullable(m.ServerName), nullable(m.ServerLocation), nullable(m.ServerSponsor))
	}
	if err != nil {
		_ = tx.Rollback()
		return &domain.WriteError{Err: fmt.Errorf("insert measurement: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return &domain.WriteError{Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Latest returns up to limit measurements ordered by descending timestamp.
func (g *Gateway) Latest(ctx context.Context, limit int) ([]domain.Measurement, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := g.db.QueryContext(ctx, latestStatement, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: query latest: %w", err)
	}
	defer rows.Close()

	var measurements []domain.Measurement
	for rows.Next() {
		var (
			m                       domain.Measurement
			name, location, sponsor sql.NullString
		)
		if err := rows.Scan(&m.Timestamp, &m.DownloadMbps, &m.UploadMbps, &m.PingMs, &name, &location, &sponsor); err != nil {
			return nil, fmt.Errorf("storage: scan measurement: %w", err)
		}
		m.ServerName = name.String
		m.ServerLocation = location.String
		m.ServerSponsor = sponsor.String
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate measurements: %w", err)
	}

	return measurements, nil
}

// Close releases the connection exactly once.
func (g *Gateway) Close() error {
	var err error
	g.closeOnce.Do(func() {
		err = g.db.Close()
	})
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ domain.MeasurementStore = (*Gateway)(nil)
