package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) ListBySeason(ctx context.Context, seasonID string) ([]competition.Competition, error) {
	query, args, err := qb.Select(qb.Columns(competitionTableModel{})...).From("competitions").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("start_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select competitions by season query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select competitions by season: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select(qb.Columns(competitionTableModel{})...).From("competitions").
		Where(qb.Eq("public_id", competitionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build select competition by id query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) Create(ctx context.Context, item competition.Competition) error {
	query, args, err := qb.InsertModel("competitions", competitionToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert competition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert competition %s: %w", item.ID, err)
	}
	return nil
}

func (r *CompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	builder, err := qb.UpdateModel("competitions", competitionToModel(item), "public_id", "season_public_id", "created_at")
	if err != nil {
		return fmt.Errorf("build update competition query: %w", err)
	}
	query, args, err := builder.Where(qb.Eq("public_id", item.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update competition query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, "competition", item.ID)
}
