package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// SavedReport is one persisted research run.
type SavedReport struct {
	ID             int64                    `json:"id"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Budget         float64                  `json:"budget"`
	RiskPreference contracts.RiskPreference `json:"risk_preference"`
	UniverseSize   int                      `json:"universe_size"`
	Picks          []contracts.RankedPick   `json:"picks"`
	Markdown       string                   `json:"markdown"`
}

// Repository persists research reports.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save stores a rendered report with its picks as JSONB.
func (r *Repository) Save(ctx context.Context, rep *SavedReport) (int64, error) {
	picks, err := json.Marshal(rep.Picks)
	if err != nil {
		return 0, fmt.Errorf("marshal picks: %w", err)
	}

	query := `
		INSERT INTO research.reports
			(generated_at, budget, risk_preference, universe_size, picks, markdown)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		rep.GeneratedAt, rep.Budget, string(rep.RiskPreference),
		rep.UniverseSize, picks, rep.Markdown,
	).Scan(&id)

	return id, err
}

// Latest returns the most recent reports, newest first.
func (r *Repository) Latest(ctx context.Context, limit int) ([]SavedReport, error) {
	query := `
		SELECT id, generated_at, budget, risk_preference, universe_size, picks, markdown
		FROM research.reports
		ORDER BY generated_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []SavedReport
	for rows.Next() {
		var rep SavedReport
		var pref string
		var picks []byte
		if err := rows.Scan(
			&rep.ID, &rep.GeneratedAt, &rep.Budget, &pref,
			&rep.UniverseSize, &picks, &rep.Markdown,
		); err != nil {
			return nil, err
		}
		rep.RiskPreference = contracts.RiskPreference(pref)
		if err := json.Unmarshal(picks, &rep.Picks); err != nil {
			return nil, fmt.Errorf("unmarshal picks: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}
