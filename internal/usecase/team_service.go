package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
)

type CreateTeamInput struct {
	SportID string
	Name    string
	Short   string
}

type TeamService struct {
	teamRepo team.Repository
	idGen    idgen.Generator
}

func NewTeamService(teamRepo team.Repository, idGen idgen.Generator) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		idGen:    idGen,
	}
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, errors.Wrap(err, "generate team id")
	}

	item := team.Team{
		ID:      id,
		SportID: strings.TrimSpace(input.SportID),
		Name:    strings.TrimSpace(input.Name),
		Short:   strings.ToUpper(strings.TrimSpace(input.Short)),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, markInvalid(err)
	}
	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, errors.Wrap(err, "create team")
	}
	return item, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	return getTeam(ctx, s.teamRepo, teamID)
}

func (s *TeamService) ListBySport(ctx context.Context, sportID string) ([]team.Team, error) {
	sportID, err := requireID("sport", sportID)
	if err != nil {
		return nil, err
	}
	items, err := s.teamRepo.ListBySport(ctx, sportID)
	if err != nil {
		return nil, errors.Wrap(err, "list teams by sport")
	}
	return items, nil
}
