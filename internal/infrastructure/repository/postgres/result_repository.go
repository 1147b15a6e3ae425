package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

// upsertResultSuffix keeps the stored public id and created_at of an existing row.
// Terminal rows are never updated.
const upsertResultSuffix = `ON CONFLICT (match_public_id) DO UPDATE SET
status = EXCLUDED.status,
home_score = EXCLUDED.home_score,
away_score = EXCLUDED.away_score,
extra_time_home = EXCLUDED.extra_time_home,
extra_time_away = EXCLUDED.extra_time_away,
penalty_home = EXCLUDED.penalty_home,
penalty_away = EXCLUDED.penalty_away,
is_official = EXCLUDED.is_official,
verified_by = EXCLUDED.verified_by,
finalized_at = EXCLUDED.finalized_at,
updated_at = EXCLUDED.updated_at
WHERE results.status NOT IN ('final', 'abandoned', 'cancelled')`

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) GetByMatch(ctx context.Context, matchID string) (result.Result, bool, error) {
	query, args, err := qb.Select(qb.Columns(resultTableModel{})...).From("results").
		Where(qb.Eq("match_public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return result.Result{}, false, fmt.Errorf("build select result by match query: %w", err)
	}

	var row resultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.Result{}, false, nil
		}
		return result.Result{}, false, fmt.Errorf("get result by match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ResultRepository) Upsert(ctx context.Context, item result.Result) error {
	model := resultToModel(item)
	if model.PublicID == "" {
		model.PublicID = "result-" + item.MatchID
	}
	query, args, err := qb.InsertModel("results", model, upsertResultSuffix)
	if err != nil {
		return fmt.Errorf("build upsert result query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert result for match %s: %w", item.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("upsert result rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("upsert result for match %s: %w", item.MatchID, result.ErrTerminal)
	}
	return nil
}
