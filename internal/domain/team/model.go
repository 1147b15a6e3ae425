package team

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Team is a club or side that plays matches in one sport.
type Team struct {
	ID      string
	SportID string
	Name    string
	Short   string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("team id is required")
	}
	if strings.TrimSpace(t.SportID) == "" {
		return errors.New("team sport id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("team name is required")
	}

	return nil
}
