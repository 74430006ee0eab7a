package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
)

type ResultInput struct {
	HomeGoals *int    `json:"home_goals"`
	AwayGoals *int    `json:"away_goals"`
	DateISO   *string `json:"date,omitempty"`
}

// ResultOutcome is the state after a change: the match as stored, the new
// standings and the schedule resolved against every result.
type ResultOutcome struct {
	Match     models.Match                `json:"match"`
	Standings []models.TournamentStanding `json:"standings"`
	Schedule  *models.Schedule            `json:"schedule"`
	Status    models.TournamentStatus     `json:"status"`
}

type MatchService interface {
	RecordResult(ctx context.Context, actor Actor, tournamentID int, matchID string, input ResultInput) (*ResultOutcome, error)
	SetDisciplinaryPoints(ctx context.Context, actor Actor, tournamentID int, points map[string]int) (*ResultOutcome, error)
	ListMatches(ctx context.Context, tournamentID int, filter repositories.ListMatchesFilter) ([]models.Match, error)
	GetMatch(ctx context.Context, tournamentID int, matchID string) (*models.Match, error)
}

type matchService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	scheduleRepo   repositories.ScheduleRepository
	standingRepo   repositories.TournamentStandingRepository
	broadcaster    Broadcaster
	snapshots      SnapshotPublisher
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	scheduleRepo repositories.ScheduleRepository,
	standingRepo repositories.TournamentStandingRepository,
	broadcaster Broadcaster,
	snapshots SnapshotPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		scheduleRepo:   scheduleRepo,
		standingRepo:   standingRepo,
		broadcaster:    broadcaster,
		snapshots:      snapshots,
		logger:         logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, actor Actor, tournamentID int, matchID string, input ResultInput) (*ResultOutcome, error) {
	if err := validateResult(input); err != nil {
		return nil, err
	}

	var outcome *ResultOutcome
	err := withTx(ctx, s.db, s.logger, func(exec repositories.SQLExecutor) error {
		t, err := s.loadManaged(ctx, exec, actor, tournamentID)
		if err != nil {
			return err
		}

		m, err := s.matchRepo.GetByID(ctx, exec, tournamentID, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to load match %s: %w", matchID, err)
		}
		if !models.ParseParticipantRef(m.HomeTeamID).IsResolved() || !models.ParseParticipantRef(m.AwayTeamID).IsResolved() {
			return fmt.Errorf("%w: %s v %s", ErrMatchNotReady, m.HomeTeamID, m.AwayTeamID)
		}
		if m.IsPlayoff && *input.HomeGoals == *input.AwayGoals {
			return ErrPlayoffDrawNotAllowed
		}

		matches, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, repositories.ListMatchesFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		if m.IsComplete() && laterPlayoffPlayed(matches, m) {
			return ErrResultLocked
		}

		if err := s.matchRepo.UpdateResult(ctx, exec, tournamentID, matchID, *input.HomeGoals, *input.AwayGoals, input.DateISO); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		for i := range matches {
			if matches[i].ID == matchID {
				matches[i].HomeGoals = models.IntPtr(*input.HomeGoals)
				matches[i].AwayGoals = models.IntPtr(*input.AwayGoals)
				if input.DateISO != nil {
					matches[i].DateISO = models.StringPtr(*input.DateISO)
				}
			}
		}

		outcome, err = s.recompute(ctx, exec, t, matches)
		if err != nil {
			return err
		}
		for _, rm := range outcome.Schedule.Matches {
			if rm.ID == matchID {
				outcome.Match = rm
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "result recorded",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.Int("home_goals", *input.HomeGoals),
		slog.Int("away_goals", *input.AwayGoals))

	broadcast(s.broadcaster, tournamentID, realtime.EventMatchUpdated, outcome.Match)
	s.publish(ctx, tournamentID, outcome)
	return outcome, nil
}

// SetDisciplinaryPoints replaces the disciplinary tally and re-ranks tables.
func (s *matchService) SetDisciplinaryPoints(ctx context.Context, actor Actor, tournamentID int, points map[string]int) (*ResultOutcome, error) {
	var outcome *ResultOutcome
	err := withTx(ctx, s.db, s.logger, func(exec repositories.SQLExecutor) error {
		t, err := s.loadManaged(ctx, exec, actor, tournamentID)
		if err != nil {
			return err
		}

		roster := make(map[string]bool, len(t.TeamIDs))
		for _, id := range t.TeamIDs {
			roster[id] = true
		}
		for id, p := range points {
			if !roster[id] {
				return fmt.Errorf("%w: team %q is not in the roster", ErrValidationFailed, id)
			}
			if p < 0 {
				return fmt.Errorf("%w: disciplinary points must not be negative", ErrValidationFailed)
			}
		}

		if err := s.tournamentRepo.UpdateDisciplinary(ctx, exec, tournamentID, points); err != nil {
			return fmt.Errorf("failed to save disciplinary points: %w", err)
		}
		t.DisciplinaryPoints = points

		matches, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, repositories.ListMatchesFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		outcome, err = s.recompute(ctx, exec, t, matches)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, tournamentID, outcome)
	return outcome, nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, tournamentID)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) GetMatch(ctx context.Context, tournamentID int, matchID string) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, tournamentID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	return m, nil
}

func (s *matchService) loadManaged(ctx context.Context, exec repositories.SQLExecutor, actor Actor, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err, tournamentID)
	}
	if !actor.canManage(t) {
		return nil, ErrForbiddenOperation
	}
	return t, nil
}

// recompute derives standings and resolved brackets from matches and persists
// whatever changed.
func (s *matchService) recompute(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, matches []models.Match) (*ResultOutcome, error) {
	template, err := s.scheduleRepo.Get(ctx, exec, t.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	p := computeProgress(t, template, matches)

	for _, m := range changedParticipants(matches, p.Resolved.Matches) {
		if err := s.matchRepo.UpdateParticipants(ctx, exec, t.ID, m.ID, m.HomeTeamID, m.AwayTeamID); err != nil {
			return nil, fmt.Errorf("failed to update participants of %s: %w", m.ID, err)
		}
	}
	if err := s.standingRepo.ReplaceForTournament(ctx, exec, t.ID, p.Standings); err != nil {
		return nil, fmt.Errorf("failed to save standings: %w", err)
	}
	if p.Status != t.Status {
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, p.Status); err != nil {
			return nil, fmt.Errorf("failed to update tournament status: %w", err)
		}
	}

	return &ResultOutcome{Standings: p.Standings, Schedule: p.Resolved, Status: p.Status}, nil
}

func (s *matchService) publish(ctx context.Context, tournamentID int, outcome *ResultOutcome) {
	broadcast(s.broadcaster, tournamentID, realtime.EventStandingsUpdated, outcome.Standings)
	broadcast(s.broadcaster, tournamentID, realtime.EventBracketUpdated, outcome.Schedule)
	publishSnapshot(ctx, s.snapshots, s.logger, tournamentID, snapshotStandings, outcome.Standings)
	publishSnapshot(ctx, s.snapshots, s.logger, tournamentID, snapshotSchedule, outcome.Schedule)
}

func validateResult(input ResultInput) error {
	if input.HomeGoals == nil || input.AwayGoals == nil || *input.HomeGoals < 0 || *input.AwayGoals < 0 {
		return ErrInvalidScore
	}
	if input.DateISO != nil {
		if _, err := time.Parse(time.RFC3339, *input.DateISO); err != nil {
			if _, err := time.Parse(time.DateOnly, *input.DateISO); err != nil {
				return fmt.Errorf("%w: date must be RFC 3339 or YYYY-MM-DD", ErrValidationFailed)
			}
		}
	}
	return nil
}

// laterPlayoffPlayed reports whether a playoff match after m already has a result.
func laterPlayoffPlayed(matches []models.Match, m *models.Match) bool {
	for i := range matches {
		other := &matches[i]
		if other.ID != m.ID && other.IsPlayoff && other.Round > m.Round && other.IsComplete() {
			return true
		}
	}
	return false
}
