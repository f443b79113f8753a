package postgres

import (
	"context"
	"fmt"
)

// LoadSet reads the active codes of one reference set. It backs the refdata cache.
func (s *Store) LoadSet(ctx context.Context, set string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, description
		FROM ref_codes
		WHERE set_name = $1 AND active
		ORDER BY sort_order, code`, set)
	if err != nil {
		return nil, classify("load ref codes "+set, err)
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var code, desc string
		if err := rows.Scan(&code, &desc); err != nil {
			return nil, fmt.Errorf("scan ref code: %w", err)
		}
		codes[code] = desc
	}
	return codes, rows.Err()
}
