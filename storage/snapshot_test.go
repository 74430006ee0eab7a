package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

type memoryUploader struct {
	objects     map[string][]byte
	contentType map[string]string
	failWith    error
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (m *memoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.objects[key] = body
	m.contentType[key] = contentType
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *memoryUploader) GetPublicURL(key string) string {
	return publicURL("https://cdn.example.com/fixtures", key)
}

func TestSnapshotPublisher(t *testing.T) {
	up := newMemoryUploader()
	p := NewSnapshotPublisher(up, "")

	res, err := p.Publish(context.Background(), 12, "standings", map[string]int{"T1": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const key = "tournaments/12/standings.json"
	if res.Key != key {
		t.Errorf("expected key %q, got %q", key, res.Key)
	}
	if res.Location != "https://cdn.example.com/fixtures/tournaments/12/standings.json" {
		t.Errorf("unexpected location %q", res.Location)
	}
	if up.contentType[key] != "application/json" {
		t.Errorf("unexpected content type %q", up.contentType[key])
	}

	var decoded map[string]int
	if err := json.Unmarshal(up.objects[key], &decoded); err != nil || decoded["T1"] != 3 {
		t.Errorf("stored payload not decodable: %s", up.objects[key])
	}

	// A regenerated schedule overwrites the previous document under the same key.
	if _, err := p.Publish(context.Background(), 12, "standings", map[string]int{"T1": 6}); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if err := json.Unmarshal(up.objects[key], &decoded); err != nil || decoded["T1"] != 6 {
		t.Errorf("snapshot not overwritten: %s", up.objects[key])
	}
	if len(up.objects) != 1 {
		t.Errorf("expected one stored object, got %d", len(up.objects))
	}
}

func TestSnapshotPublisherErrors(t *testing.T) {
	up := newMemoryUploader()
	up.failWith = errors.New("bucket unavailable")
	p := NewSnapshotPublisher(up, "fx")

	if _, err := p.Publish(context.Background(), 1, "schedule", struct{}{}); !errors.Is(err, up.failWith) {
		t.Errorf("expected upload error, got %v", err)
	}
	if _, err := p.Publish(context.Background(), 1, "schedule", make(chan int)); err == nil {
		t.Error("expected an encoding error")
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "a/b.json", "https://cdn.example.com/a/b.json"},
		{"https://cdn.example.com/", "/a/b.json", "https://cdn.example.com/a/b.json"},
		{"https://cdn.example.com/pub", "a.json", "https://cdn.example.com/pub/a.json"},
		{"", "a.json", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		if got := publicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestS3UploaderConfigEndpoint(t *testing.T) {
	if got := (S3UploaderConfig{AccountID: "abc"}).endpoint(); got != "https://abc.r2.cloudflarestorage.com" {
		t.Errorf("unexpected R2 endpoint %q", got)
	}
	if got := (S3UploaderConfig{AccountID: "abc", Endpoint: "http://minio:9000"}).endpoint(); got != "http://minio:9000" {
		t.Errorf("explicit endpoint should win, got %q", got)
	}
	if got := (S3UploaderConfig{}).endpoint(); got != "" {
		t.Errorf("expected SDK default, got %q", got)
	}
}

func TestNewS3UploaderRequiresCredentials(t *testing.T) {
	if _, err := NewS3Uploader(context.Background(), S3UploaderConfig{BucketName: "b"}); err == nil {
		t.Error("expected a configuration error")
	}
}
