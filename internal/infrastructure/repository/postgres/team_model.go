package postgres

import "github.com/riskibarqy/prediction-league/internal/domain/team"

type teamTableModel struct {
	PublicID string `db:"public_id"`
	SportID  string `db:"sport_id"`
	Name     string `db:"name"`
	Short    string `db:"short"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:      m.PublicID,
		SportID: m.SportID,
		Name:    m.Name,
		Short:   m.Short,
	}
}
