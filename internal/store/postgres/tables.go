// internal/store/postgres/tables.go
package postgres

import (
	"context"
	"fmt"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"

	"github.com/shopspring/decimal"
)

// GetAmortization loads the loan factors of every term for an interest rate.
func (s *Store) GetAmortization(ctx context.Context, ratePct decimal.Decimal) (*models.Amortization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT term_years, factor
		FROM amortization_factors
		WHERE rate_pct = $1
		ORDER BY term_years`, ratePct)
	if err != nil {
		return nil, classify("get amortization", err)
	}
	defer rows.Close()

	row := &models.Amortization{RatePct: ratePct, Factors: map[int]decimal.Decimal{}}
	for rows.Next() {
		var (
			term   int
			factor decimal.Decimal
		)
		if err := rows.Scan(&term, &factor); err != nil {
			return nil, fmt.Errorf("scan amortization factor: %w", err)
		}
		row.Factors[term] = factor
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get amortization: %w", err)
	}
	if len(row.Factors) == 0 {
		return nil, fmt.Errorf("amortization rate %s: %w", ratePct, errors.ErrNotFound)
	}
	return row, nil
}

// GetAmiConfig loads a year's income ceiling and its household-size percentages.
func (s *Store) GetAmiConfig(ctx context.Context, year int) (*models.AmiConfig, error) {
	cfg := &models.AmiConfig{Year: year, Percentages: map[int]decimal.Decimal{}}
	err := s.db.QueryRowContext(ctx,
		`SELECT income_ceiling FROM ami_configs WHERE year = $1`, year,
	).Scan(&cfg.IncomeCeiling)
	if err != nil {
		return nil, classify(fmt.Sprintf("get ami config %d", year), err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT household_size, percentage
		FROM ami_percentages
		WHERE year = $1
		ORDER BY household_size`, year)
	if err != nil {
		return nil, classify("list ami percentages", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			size int
			pct  decimal.Decimal
		)
		if err := rows.Scan(&size, &pct); err != nil {
			return nil, fmt.Errorf("scan ami percentage: %w", err)
		}
		cfg.Percentages[size] = pct
	}
	return cfg, rows.Err()
}
