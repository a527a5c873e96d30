// Package services contains the business-level logic for recording metadata
// and the attached audio objects.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/objectstore"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// ErrCriticalInconsistency reports that the remote audio object was deleted
// but the local metadata record could not be removed. The stores disagree and
// an operator has to reconcile them by hand.
var ErrCriticalInconsistency = errors.New("critical inconsistency: remote file deleted but local record remains")

const cacheTTL = 5 * time.Minute

// RecordingRepository describes the contract for recording persistence.
type RecordingRepository interface {
	CreateRecording(ctx context.Context, rec models.Recording) error
	GetRecording(ctx context.Context, id string) (*models.Recording, error)
	ListRecordings(ctx context.Context) ([]*models.Recording, error)
	UpdateRecording(ctx context.Context, id string, upd models.DummyRecordingUpdate, parsedTags []models.Tag) (*models.Recording, error)
	DeleteRecording(ctx context.Context, id string) error
}

// Cache is the read-through cache for single recordings.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Gateway talks to the remote object storage holding the audio files.
type Gateway interface {
	Upload(ctx context.Context, data []byte, key, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// RecordingService implements recording CRUD with optional audio upload and
// the delete-both-stores workflow.
type RecordingService struct {
	repo         RecordingRepository
	cache        Cache
	gateway      Gateway
	uploadPolicy string
	log          *slog.Logger
}

// NewRecordingService creates a new RecordingService instance. uploadPolicy
// is config.UploadPolicyReject or config.UploadPolicyDegrade.
func NewRecordingService(repo RecordingRepository, cache Cache, gateway Gateway, uploadPolicy string, log *slog.Logger) *RecordingService {
	return &RecordingService{
		repo:         repo,
		cache:        cache,
		gateway:      gateway,
		uploadPolicy: uploadPolicy,
		log:          log,
	}
}

func cacheKey(id string) string {
	return "recording:" + id
}

// Create validates the tags, uploads the audio file when present and stores
// the metadata record. Under the reject policy an upload failure aborts the
// whole create; under degrade the record is stored without audio.
func (s *RecordingService) Create(ctx context.Context, entry models.DummyRecording, file *models.UploadedFile) (*models.Recording, error) {
	const op = "services.recording.Create"

	tags, err := models.ParseTags(entry.Tags)
	if err != nil {
		return nil, err
	}

	rec := models.Recording{
		ID:       uuid.New().String(),
		Name:     entry.Name,
		Duration: entry.Duration,
		Location: entry.Location,
		Date:     entry.Date,
		Time:     entry.Time,
		Tags:     tags,
	}

	if file != nil {
		key := objectstore.NewStorageKey(file.Name)
		if err = s.gateway.Upload(ctx, file.Data, key, file.ContentType); err != nil {
			if s.uploadPolicy == config.UploadPolicyReject {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			s.log.Warn("audio upload failed, storing recording without audio",
				slog.String("op", op), slog.String("name", entry.Name), sl.Err(err))
		} else {
			rec.RemoteFileKey = &key
		}
	}

	if err = s.repo.CreateRecording(ctx, rec); err != nil {
		if rec.RemoteFileKey != nil {
			// The metadata insert failed after the object landed remotely.
			// Best effort cleanup so the bucket does not collect orphans.
			if delErr := s.gateway.Delete(ctx, *rec.RemoteFileKey); delErr != nil {
				s.log.Error("orphaned remote object after failed create",
					slog.String("op", op), slog.String("key", *rec.RemoteFileKey), sl.Err(delErr))
			}
		}
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, storage.ErrDuplicate
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.deriveAudioURL(&rec)
	if cacheErr := s.cache.Set(cacheKey(rec.ID), rec, cacheTTL); cacheErr != nil {
		s.log.Warn("failed to cache recording", slog.String("op", op), sl.Err(cacheErr))
	}
	return &rec, nil
}

// Read returns a single recording, cache first.
func (s *RecordingService) Read(ctx context.Context, id string) (*models.Recording, error) {
	const op = "services.recording.Read"

	var cached models.Recording
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("op", op), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	rec, err := s.repo.GetRecording(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordingNotFound) {
			return nil, storage.ErrRecordingNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.deriveAudioURL(rec)

	if cacheErr := s.cache.Set(cacheKey(id), rec, cacheTTL); cacheErr != nil {
		s.log.Warn("failed to cache recording", slog.String("op", op), sl.Err(cacheErr))
	}
	return rec, nil
}

// List returns all recordings, newest first.
func (s *RecordingService) List(ctx context.Context) ([]*models.Recording, error) {
	const op = "services.recording.List"

	recs, err := s.repo.ListRecordings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, rec := range recs {
		s.deriveAudioURL(rec)
	}
	return recs, nil
}

// Update applies a partial metadata update and invalidates the cache entry.
func (s *RecordingService) Update(ctx context.Context, id string, upd models.DummyRecordingUpdate) (*models.Recording, error) {
	const op = "services.recording.Update"

	var tags []models.Tag
	if len(upd.Tags) > 0 {
		var err error
		tags, err = models.ParseTags(upd.Tags)
		if err != nil {
			return nil, err
		}
	}

	rec, err := s.repo.UpdateRecording(ctx, id, upd, tags)
	if err != nil {
		if errors.Is(err, storage.ErrRecordingNotFound) {
			return nil, storage.ErrRecordingNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.deriveAudioURL(rec)

	if cacheErr := s.cache.Invalidate(cacheKey(id)); cacheErr != nil {
		s.log.Warn("failed to invalidate cache", slog.String("op", op), sl.Err(cacheErr))
	}
	return rec, nil
}

// Delete removes the remote audio object first and the local record second.
// A remote failure aborts the operation with both stores intact. A local
// failure after the remote object is gone returns ErrCriticalInconsistency.
func (s *RecordingService) Delete(ctx context.Context, id string) error {
	const op = "services.recording.Delete"

	rec, err := s.repo.GetRecording(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordingNotFound) {
			return storage.ErrRecordingNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	remoteDeleted := false
	if rec.RemoteFileKey != nil {
		if err = s.gateway.Delete(ctx, *rec.RemoteFileKey); err != nil {
			return fmt.Errorf("%s: remote delete failed: %w", op, err)
		}
		remoteDeleted = true
	}

	if err = s.repo.DeleteRecording(ctx, id); err != nil {
		if errors.Is(err, storage.ErrRecordingNotFound) {
			// Someone else removed the record in between. Both stores agree.
			return nil
		}
		if remoteDeleted {
			s.log.Error("local delete failed after remote delete",
				slog.String("op", op), slog.String("id", id),
				slog.String("key", *rec.RemoteFileKey), sl.Err(err))
			return fmt.Errorf("%w: %w", ErrCriticalInconsistency, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if cacheErr := s.cache.Invalidate(cacheKey(id)); cacheErr != nil {
		s.log.Warn("failed to invalidate cache", slog.String("op", op), sl.Err(cacheErr))
	}
	return nil
}

func (s *RecordingService) deriveAudioURL(rec *models.Recording) {
	if rec.RemoteFileKey != nil {
		url := s.gateway.PublicURL(*rec.RemoteFileKey)
		rec.AudioURL = &url
	}
}
