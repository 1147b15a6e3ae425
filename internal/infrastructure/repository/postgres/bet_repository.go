package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

const betUserMatchConstraint = "bets_user_match_key"

var unsettledStatuses = []string{string(bet.StatusPending), string(bet.StatusActive)}

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) GetByID(ctx context.Context, betID string) (bet.Bet, bool, error) {
	query, args, err := qb.Select(qb.Columns(betTableModel{})...).From("bets").
		Where(qb.Eq("public_id", betID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build select bet by id query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *BetRepository) ListByMatch(ctx context.Context, matchID string) ([]bet.Bet, error) {
	return r.list(ctx, "match", qb.Eq("match_public_id", matchID))
}

func (r *BetRepository) ListByUser(ctx context.Context, userID string) ([]bet.Bet, error) {
	return r.list(ctx, "user", qb.Eq("user_id", userID))
}

func (r *BetRepository) list(ctx context.Context, by string, condition qb.Condition) ([]bet.Bet, error) {
	query, args, err := qb.Select(qb.Columns(betTableModel{})...).From("bets").
		Where(condition).
		OrderBy("placed_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bets by %s query: %w", by, err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets by %s: %w", by, err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) error {
	query, args, err := qb.InsertModel("bets", betToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, betUserMatchConstraint) {
			return fmt.Errorf("user %s on match %s: %w", item.UserID, item.MatchID, bet.ErrDuplicateBet)
		}
		return fmt.Errorf("insert bet %s: %w", item.ID, err)
	}
	return nil
}

// Settle is a compare-and-set on the unsettled statuses, so concurrent settlers
// of the same bet see exactly one winner.
func (r *BetRepository) Settle(ctx context.Context, item bet.Bet) error {
	query, args, err := qb.Update("bets").
		Set("status", string(item.Status)).
		Set("points_earned", item.PointsEarned).
		Set("settled_at", item.SettledAt).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.In("status", unsettledStatuses),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build settle bet query: %w", err)
	}

	return r.compareAndSet(ctx, query, args, item.ID, bet.ErrAlreadySettled)
}

func (r *BetRepository) SaveBonus(ctx context.Context, item bet.Bet) error {
	query, args, err := qb.Update("bets").
		Set("bonus_points", item.BonusPoints).
		Set("bonus_applied", true).
		Set("bonus_reason", item.BonusReason).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("bonus_applied", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save bet bonus query: %w", err)
	}

	return r.compareAndSet(ctx, query, args, item.ID, bet.ErrBonusAlreadyApplied)
}

// Update writes the mutable fields of a bet. It never moves a bet to another user
// or match.
func (r *BetRepository) Update(ctx context.Context, item bet.Bet) error {
	builder, err := qb.UpdateModel("bets", betToModel(item), "public_id", "user_id", "match_public_id", "placed_at")
	if err != nil {
		return fmt.Errorf("build update bet query: %w", err)
	}
	query, args, err := builder.
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("user_id", item.UserID),
			qb.Eq("match_public_id", item.MatchID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, "bet", item.ID)
}

// compareAndSet runs a guarded update. Zero affected rows is the lost race when
// the bet exists, not found otherwise.
func (r *BetRepository) compareAndSet(ctx context.Context, query string, args []any, betID string, lost error) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update bet %s: %w", betID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for bet %s: %w", betID, err)
	}
	if affected == 1 {
		return nil
	}

	_, exists, err := r.GetByID(ctx, betID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: bet %s", errNoRowsAffected, betID)
	}
	return fmt.Errorf("bet %s: %w", betID, lost)
}
