package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

const onPublicIDConflict = "ON CONFLICT (public_id) DO NOTHING"

// BootstrapSeed loads the demo season when the database holds no seasons yet.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows := make([]seedRow, 0, 32)
	for _, item := range memory.SeedSeasons() {
		rows = append(rows, seedRow{table: "seasons", id: item.ID, model: seasonToModel(item)})
	}
	for _, item := range memory.SeedTeams() {
		rows = append(rows, seedRow{table: "teams", id: item.ID, model: teamTableModel{
			PublicID: item.ID,
			SportID:  item.SportID,
			Name:     item.Name,
			Short:    item.Short,
		}})
	}
	for _, item := range memory.SeedCompetitions() {
		rows = append(rows, seedRow{table: "competitions", id: item.ID, model: competitionToModel(item)})
	}
	for _, item := range memory.SeedMatches() {
		rows = append(rows, seedRow{table: "matches", id: item.ID, model: matchToModel(item)})
	}
	for _, item := range memory.SeedResults() {
		rows = append(rows, seedRow{table: "results", id: item.ID, model: resultToModel(item)})
	}

	for _, row := range rows {
		query, args, err := qb.InsertModel(row.table, row.model, onPublicIDConflict)
		if err != nil {
			return fmt.Errorf("build seed %s %s query: %w", row.table, row.id, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed %s %s: %w", row.table, row.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

type seedRow struct {
	table string
	id    string
	model any
}
