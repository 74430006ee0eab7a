package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

const jsonContentType = "application/json"

// SnapshotPublisher writes read-only JSON copies of tournament state to object
// storage so clients can fetch them without hitting the API.
type SnapshotPublisher struct {
	uploader FileUploader
	prefix   string
}

func NewSnapshotPublisher(uploader FileUploader, prefix string) *SnapshotPublisher {
	if prefix == "" {
		prefix = "tournaments"
	}
	return &SnapshotPublisher{uploader: uploader, prefix: prefix}
}

// SnapshotKey is the object key for one document of a tournament.
func (p *SnapshotPublisher) SnapshotKey(tournamentID int, name string) string {
	return fmt.Sprintf("%s/%d/%s.json", p.prefix, tournamentID, name)
}

func (p *SnapshotPublisher) Publish(ctx context.Context, tournamentID int, name string, v interface{}) (*UploadResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s snapshot: %w", name, err)
	}
	return p.uploader.Upload(ctx, p.SnapshotKey(tournamentID, name), jsonContentType, bytes.NewReader(payload))
}
