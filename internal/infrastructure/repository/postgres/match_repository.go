package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).From("matches").
		Where(qb.Eq("competition_public_id", competitionID)).
		OrderBy("scheduled_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by competition query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by competition: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match %s: %w", item.ID, err)
	}
	return nil
}

// Update never moves a match to another competition.
func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	builder, err := qb.UpdateModel("matches", matchToModel(item), "public_id", "competition_public_id", "created_at")
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	query, args, err := builder.
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("competition_public_id", item.CompetitionID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, "match", item.ID)
}
