package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
)

const maxTournamentNameLength = 150

type CreateTournamentInput struct {
	Name     string                `json:"name"`
	TeamIDs  []string              `json:"team_ids"`
	Settings models.FormatSettings `json:"settings"`
}

type TournamentService interface {
	Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	formatService  FormatService
	logger         *slog.Logger
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, formatService FormatService, logger *slog.Logger) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		formatService:  formatService,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxTournamentNameLength {
		return nil, fmt.Errorf("%w: name is longer than %d characters", ErrValidationFailed, maxTournamentNameLength)
	}
	if actor.UserID == 0 {
		return nil, ErrAuthenticationFailed
	}
	if err := s.formatService.ValidateSettings(input.Settings, input.TeamIDs); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Name:        name,
		TeamIDs:     input.TeamIDs,
		Settings:    input.Settings,
		Status:      models.StatusDraft,
		OrganizerID: actor.UserID,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		case errors.Is(err, repositories.ErrTournamentInvalidOrg):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", t.ID), slog.String("mode", string(t.Settings.Mode)), slog.Int("teams", len(t.TeamIDs)))
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentRepoError(err, id)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func mapTournamentRepoError(err error, id int) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("failed to load tournament %d: %w", id, err)
}
