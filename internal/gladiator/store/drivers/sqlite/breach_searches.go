package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type breachSearchesRepo struct {
	db dbtx
}

func (r *breachSearchesRepo) CreateSearch(ctx context.Context, s domain.BreachSearch) error {
	breaches := s.Breaches
	if breaches == nil {
		breaches = []domain.Breach{}
	}
	payload, err := json.Marshal(breaches)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO breach_searches (id, organization_id, user_id, query, query_type, breach_count,
			result_json, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OrganizationID, s.UserID, s.Query, string(s.QueryType), s.BreachCount,
		string(payload), s.Error, toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *breachSearchesRepo) ListSearches(ctx context.Context, orgID string, limit, offset int) ([]domain.BreachSearch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, user_id, query, query_type, breach_count, result_json, error, created_at
		FROM breach_searches
		WHERE organization_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BreachSearch
	for rows.Next() {
		var (
			s         domain.BreachSearch
			qt, raw   string
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.UserID, &s.Query, &qt, &s.BreachCount,
			&raw, &s.Error, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &s.Breaches); err != nil {
			return nil, err
		}
		s.QueryType = domain.BreachQueryType(qt)
		s.CreatedAt = fromMillis(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *breachSearchesRepo) Summarize(ctx context.Context, orgID string) (domain.DashboardSummary, error) {
	var (
		sum  domain.DashboardSummary
		last sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT CASE WHEN breach_count > 0 THEN query END),
			COALESCE(SUM(breach_count), 0),
			MAX(created_at)
		FROM breach_searches
		WHERE organization_id = ?`, orgID,
	).Scan(&sum.TotalSearches, &sum.ExposedQueries, &sum.TotalBreachHits, &last)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	sum.LastSearchAt = fromNullMillis(last)
	return sum, nil
}
