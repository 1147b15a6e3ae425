package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select(qb.Columns(seasonTableModel{})...).From("seasons").
		OrderBy("start_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select(qb.Columns(seasonTableModel{})...).From("seasons").
		Where(qb.Eq("public_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build select season by id query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	query, args, err := qb.InsertModel("seasons", seasonToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season %s: %w", item.ID, err)
	}
	return nil
}

func (r *SeasonRepository) Update(ctx context.Context, item season.Season) error {
	builder, err := qb.UpdateModel("seasons", seasonToModel(item), "public_id", "created_at")
	if err != nil {
		return fmt.Errorf("build update season query: %w", err)
	}
	query, args, err := builder.Where(qb.Eq("public_id", item.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update season query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, "season", item.ID)
}
