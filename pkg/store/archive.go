// Package store persists completed intelligence reports to Postgres. The
// report itself is kept as JSONB so the schema never chases the report
// shape; the indexed columns cover the queries analysts actually run.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dagger-5328/honeytrap/pkg/intel"
)

// Archive is the report archive over a pgx connection pool.
type Archive struct {
	pool *pgxpool.Pool
}

// New connects and pings. The caller owns the returned archive and must
// Close it.
func New(ctx context.Context, databaseURL string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return &Archive{pool: pool}, nil
}

// Close releases the connection pool.
func (a *Archive) Close() {
	a.pool.Close()
}

// EnsureSchema creates the reports table if it does not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id              BIGSERIAL PRIMARY KEY,
			conversation_id TEXT NOT NULL UNIQUE,
			scam_type       TEXT NOT NULL,
			confidence      INT NOT NULL,
			report          JSONB NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// SaveReport inserts one completed report. Replays of the same conversation
// id overwrite the stored report.
func (a *Archive) SaveReport(ctx context.Context, report intel.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("store: encode report: %w", err)
	}

	_, err = a.pool.Exec(ctx, `
		INSERT INTO reports (conversation_id, scam_type, confidence, report, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conversation_id) DO UPDATE
		SET scam_type = EXCLUDED.scam_type,
		    confidence = EXCLUDED.confidence,
		    report = EXCLUDED.report`,
		report.ConversationID, report.ScamType, report.ConfidenceScore,
		payload, report.Timestamp)
	if err != nil {
		return fmt.Errorf("store: save report %s: %w", report.ConversationID, err)
	}
	return nil
}

// RecentReports returns the newest reports, most recent first.
func (a *Archive) RecentReports(ctx context.Context, limit int) ([]intel.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.pool.Query(ctx, `
		SELECT report FROM reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list reports: %w", err)
	}
	defer rows.Close()

	var reports []intel.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scan report: %w", err)
		}
		var report intel.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("store: decode report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
