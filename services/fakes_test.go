package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	mu     sync.Mutex
	items  map[int]*models.Tournament
	nextID int
	err    error
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{items: map[int]*models.Tournament{}}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.items[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.items {
		if filter.OrganizerID != nil && t.OrganizerID != *filter.OrganizerID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateDisciplinary(ctx context.Context, exec repositories.SQLExecutor, id int, points map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.DisciplinaryPoints = points
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[int][]models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: map[int][]models.Match{}}
}

func (r *fakeMatchRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, matches []models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[tournamentID] = append(r.matches[tournamentID], matches...)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, matchID string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches[tournamentID] {
		if m.ID == matchID {
			cp := m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range r.matches[tournamentID] {
		if filter.Round != nil && m.Round != *filter.Round {
			continue
		}
		if filter.IsPlayoff != nil && m.IsPlayoff != *filter.IsPlayoff {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) update(tournamentID int, matchID string, fn func(m *models.Match)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.matches[tournamentID] {
		if r.matches[tournamentID][i].ID == matchID {
			fn(&r.matches[tournamentID][i])
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, matchID string, homeGoals, awayGoals int, dateISO *string) error {
	return r.update(tournamentID, matchID, func(m *models.Match) {
		m.HomeGoals = models.IntPtr(homeGoals)
		m.AwayGoals = models.IntPtr(awayGoals)
		if dateISO != nil {
			m.DateISO = models.StringPtr(*dateISO)
		}
	})
}

func (r *fakeMatchRepo) UpdateParticipants(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, matchID, homeTeamID, awayTeamID string) error {
	return r.update(tournamentID, matchID, func(m *models.Match) {
		m.HomeTeamID = homeTeamID
		m.AwayTeamID = awayTeamID
	})
}

func (r *fakeMatchRepo) CountCompleted(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.matches[tournamentID] {
		if m.IsComplete() {
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, tournamentID)
	return nil
}

// fakeScheduleRepo stores schedules as JSON, the way the JSONB column does.
type fakeScheduleRepo struct {
	mu   sync.Mutex
	docs map[int][]byte
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{docs: map[int][]byte{}}
}

func (r *fakeScheduleRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, schedule *models.Schedule) error {
	snapshot := *schedule
	snapshot.Matches = nil
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[tournamentID] = payload
	return nil
}

func (r *fakeScheduleRepo) Get(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.Schedule, error) {
	r.mu.Lock()
	payload, ok := r.docs[tournamentID]
	r.mu.Unlock()
	if !ok {
		return nil, repositories.ErrScheduleNotFound
	}
	var s models.Schedule
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, tournamentID)
	return nil
}

type fakeStandingRepo struct {
	mu        sync.Mutex
	standings map[int][]models.TournamentStanding
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{standings: map[int][]models.TournamentStanding{}}
}

func (r *fakeStandingRepo) ReplaceForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, standings []models.TournamentStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.standings[tournamentID] = append([]models.TournamentStanding(nil), standings...)
	return nil
}

func (r *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.TournamentStanding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TournamentStanding{}, r.standings[tournamentID]...), nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	rooms  []string
	events []realtime.WebSocketMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, roomID)
	if msg, ok := message.(realtime.WebSocketMessage); ok {
		b.events = append(b.events, msg)
	}
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

type recordingSnapshots struct {
	mu   sync.Mutex
	keys []string
}

func (s *recordingSnapshots) Publish(ctx context.Context, tournamentID int, name string, v interface{}) (*storage.UploadResult, error) {
	if _, err := json.Marshal(v); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, name)
	return &storage.UploadResult{Key: name}, nil
}

// env bundles a service stack over in-memory repositories.
type env struct {
	tournaments *fakeTournamentRepo
	matches     *fakeMatchRepo
	schedules   *fakeScheduleRepo
	standings   *fakeStandingRepo
	broadcaster *recordingBroadcaster
	snapshots   *recordingSnapshots

	format   FormatService
	tourney  TournamentService
	schedule ScheduleService
	match    MatchService
}

func newEnv() *env {
	e := &env{
		tournaments: newFakeTournamentRepo(),
		matches:     newFakeMatchRepo(),
		schedules:   newFakeScheduleRepo(),
		standings:   newFakeStandingRepo(),
		broadcaster: &recordingBroadcaster{},
		snapshots:   &recordingSnapshots{},
		format:      NewFormatService(),
	}
	logger := quietLogger()
	e.tourney = NewTournamentService(e.tournaments, e.format, logger)
	e.schedule = NewScheduleService(nil, e.tournaments, e.matches, e.schedules, e.standings, e.broadcaster, e.snapshots, logger)
	e.match = NewMatchService(nil, e.tournaments, e.matches, e.schedules, e.standings, e.broadcaster, e.snapshots, logger)
	return e
}
