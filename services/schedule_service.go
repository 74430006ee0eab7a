package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type ScheduleService interface {
	GenerateSchedule(ctx context.Context, actor Actor, tournamentID int) (*models.Schedule, error)
	GetTournamentData(ctx context.Context, tournamentID int) (*models.Tournament, error)
	GetStandings(ctx context.Context, tournamentID int) ([]models.TournamentStanding, error)
}

type scheduleService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	scheduleRepo   repositories.ScheduleRepository
	standingRepo   repositories.TournamentStandingRepository
	broadcaster    Broadcaster
	snapshots      SnapshotPublisher
	logger         *slog.Logger
}

// NewScheduleService wires the schedule workflow. db may be nil (no
// transaction); broadcaster and snapshots are optional.
func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	scheduleRepo repositories.ScheduleRepository,
	standingRepo repositories.TournamentStandingRepository,
	broadcaster Broadcaster,
	snapshots SnapshotPublisher,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
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

// GenerateSchedule runs the engine for the tournament's roster and format and
// replaces any earlier fixture list. It is refused once a result exists.
func (s *scheduleService) GenerateSchedule(ctx context.Context, actor Actor, tournamentID int) (*models.Schedule, error) {
	var (
		schedule  *models.Schedule
		standings []models.TournamentStanding
	)

	err := withTx(ctx, s.db, s.logger, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return mapTournamentRepoError(err, tournamentID)
		}
		if !actor.canManage(t) {
			return ErrForbiddenOperation
		}
		if t.Status != models.StatusDraft && t.Status != models.StatusScheduled {
			return ErrScheduleLocked
		}
		played, err := s.matchRepo.CountCompleted(ctx, exec, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count played matches: %w", err)
		}
		if played > 0 {
			return ErrScheduleLocked
		}

		schedule, err = generateSchedule(t.Settings, t.TeamIDs)
		if err != nil {
			return err
		}
		for i := range schedule.Matches {
			schedule.Matches[i].TournamentID = tournamentID
		}

		if err := s.matchRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
			return fmt.Errorf("failed to clear previous matches: %w", err)
		}
		if err := s.matchRepo.BatchCreate(ctx, exec, tournamentID, schedule.Matches); err != nil {
			return fmt.Errorf("failed to save matches: %w", err)
		}
		if err := s.scheduleRepo.Upsert(ctx, exec, tournamentID, schedule); err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}

		standings = computeProgress(t, schedule, schedule.Matches).Standings
		if err := s.standingRepo.ReplaceForTournament(ctx, exec, tournamentID, standings); err != nil {
			return fmt.Errorf("failed to save standings: %w", err)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.StatusScheduled); err != nil {
			return fmt.Errorf("failed to update tournament status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("mode", string(schedule.Mode)),
		slog.Int("matches", len(schedule.Matches)))

	broadcast(s.broadcaster, tournamentID, realtime.EventScheduleGenerated, schedule)
	publishSnapshot(ctx, s.snapshots, s.logger, tournamentID, snapshotSchedule, schedule)
	publishSnapshot(ctx, s.snapshots, s.logger, tournamentID, snapshotStandings, standings)

	return schedule, nil
}

// GetTournamentData loads the tournament with its matches, stored standings and
// the schedule resolved against the current results.
func (s *scheduleService) GetTournamentData(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		t         *models.Tournament
		matches   []models.Match
		template  *models.Schedule
		standings []models.TournamentStanding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gctx, nil, tournamentID)
		if err != nil {
			return mapTournamentRepoError(err, tournamentID)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, repositories.ListMatchesFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		template, err = s.scheduleRepo.Get(gctx, nil, tournamentID)
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		standings, err = s.standingRepo.ListByTournament(gctx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list standings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.Matches = matches
	t.Standings = standings
	if template != nil {
		resolved := computeProgress(t, template, matches).Resolved
		resolved.Matches = nil
		t.Schedule = resolved
	}
	return t, nil
}

func (s *scheduleService) GetStandings(ctx context.Context, tournamentID int) ([]models.TournamentStanding, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, tournamentID)
	}
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	return standings, nil
}
