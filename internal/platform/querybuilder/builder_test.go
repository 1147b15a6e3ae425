package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status").
		From("bets").
		Where(Eq("match_id", "m1"), In("status", []string{"pending", "active"}), IsNull("deleted_at")).
		OrderBy("placed_at", "id").
		Limit(10).
		Offset(20).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM bets WHERE match_id = $1 AND status IN ($2, $3) AND deleted_at IS NULL ORDER BY placed_at, id LIMIT 10 OFFSET 20 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"m1", "pending", "active"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInAndOr(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(In[string]("competition_id", nil), Or(Eq("home_team_id", "t1"), Eq("away_team_id", "t1"))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE 1=0 AND (home_team_id = $1 OR away_team_id = $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		Ignored   string    `db:"-"`
		CreatedAt time.Time `db:"created_at,omitempty"`
		internal  string
	}
	query, args, err := InsertModel("teams", row{ID: "t1", Name: "Arsenal", internal: "x"}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "t1" || args[1] != "Arsenal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateModel(t *testing.T) {
	type row struct {
		ID     string `db:"id"`
		Status string `db:"status"`
		Points int    `db:"points_earned"`
	}
	builder, err := UpdateModel("bets", row{ID: "b1", Status: "won", Points: 3}, "id")
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "b1"), In("status", []string{"pending", "active"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE bets SET status = $1, points_earned = $2, updated_at = NOW() WHERE id = $3 AND status IN ($4, $5)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"won", 3, "b1", "pending", "active"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuilderErrors(t *testing.T) {
	if _, _, err := Select().From("x").ToSQL(); err == nil {
		t.Fatalf("expected error for missing columns")
	}
	if _, _, err := InsertInto("x").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, _, err := Update("x").ToSQL(); err == nil {
		t.Fatalf("expected error for missing sets")
	}
	if _, _, err := InsertModel("x", (*struct{})(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
