package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
)

// Broadcaster pushes events to websocket rooms. *realtime.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// SnapshotPublisher copies tournament state to object storage.
// *storage.SnapshotPublisher implements it.
type SnapshotPublisher interface {
	Publish(ctx context.Context, tournamentID int, name string, v interface{}) (*storage.UploadResult, error)
}

const (
	snapshotSchedule  = "schedule"
	snapshotStandings = "standings"
)

// Actor is the authenticated caller of a write operation.
type Actor struct {
	UserID int
	Role   string
}

func (a Actor) canManage(t *models.Tournament) bool {
	return a.Role == models.RoleAdmin || (a.UserID != 0 && a.UserID == t.OrganizerID)
}

// withTx runs fn inside a transaction. Without a database fn runs against the
// repositories' own executors.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(exec repositories.SQLExecutor) error) (err error) {
	if db == nil {
		return fn(nil)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorContext(ctx, "transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", err))
				err = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

func broadcast(b Broadcaster, tournamentID int, eventType string, payload interface{}) {
	if b == nil {
		return
	}
	room := realtime.TournamentRoom(tournamentID)
	b.BroadcastToRoom(room, realtime.WebSocketMessage{Type: eventType, Payload: payload, RoomID: room})
}

// publishSnapshot never fails the caller: the database is the source of truth.
func publishSnapshot(ctx context.Context, p SnapshotPublisher, logger *slog.Logger, tournamentID int, name string, v interface{}) {
	if p == nil {
		return
	}
	res, err := p.Publish(ctx, tournamentID, name, v)
	if err != nil {
		logger.WarnContext(ctx, "failed to publish snapshot",
			slog.Int("tournament_id", tournamentID), slog.String("snapshot", name), slog.Any("error", err))
		return
	}
	logger.DebugContext(ctx, "snapshot published",
		slog.Int("tournament_id", tournamentID), slog.String("key", res.Key), slog.String("url", res.Location))
}
