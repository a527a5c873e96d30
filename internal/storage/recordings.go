package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
)

// CreateRecording inserts a new recording. The id is generated by the caller.
// A duplicate remote file key maps to ErrDuplicate.
func (s *Storage) CreateRecording(ctx context.Context, rec models.Recording) error {
	const op = "storage.CreateRecording"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tags, err := marshalTags(rec.Tags)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO recordings (id, name, duration, location, date, time,
			      tags, remote_file_key, audio_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.DB.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Duration, rec.Location, rec.Date, rec.Time,
		tags, rec.RemoteFileKey, rec.AudioURL); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetRecording returns the recording for the given id.
func (s *Storage) GetRecording(ctx context.Context, id string) (*models.Recording, error) {
	const op = "storage.GetRecording"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration, location, date, time, tags,
			      remote_file_key, audio_url, created_at, updated_at
			  FROM recordings
			  WHERE id = $1`
	rec, err := scanRecording(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRecordingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// ListRecordings returns all recordings ordered by creation time, newest first.
func (s *Storage) ListRecordings(ctx context.Context) ([]*models.Recording, error) {
	const op = "storage.ListRecordings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration, location, date, time, tags,
			      remote_file_key, audio_url, created_at, updated_at
			  FROM recordings
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRecording applies a partial metadata update and returns the updated
// record. Nil fields in upd are not touched. ParsedTags carries validated
// tags when the request included them.
func (s *Storage) UpdateRecording(ctx context.Context, id string, upd models.DummyRecordingUpdate, parsedTags []models.Tag) (*models.Recording, error) {
	const op = "storage.UpdateRecording"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	setClauses := []string{"updated_at = now()"}
	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Name != nil {
		setClauses = append(setClauses, "name = "+next(*upd.Name))
	}
	if upd.Duration != nil {
		setClauses = append(setClauses, "duration = "+next(*upd.Duration))
	}
	if upd.Location != nil {
		setClauses = append(setClauses, "location = "+next(*upd.Location))
	}
	if upd.Date != nil {
		setClauses = append(setClauses, "date = "+next(*upd.Date))
	}
	if upd.Time != nil {
		setClauses = append(setClauses, "time = "+next(*upd.Time))
	}
	if len(upd.Tags) > 0 {
		tags, err := marshalTags(parsedTags)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		setClauses = append(setClauses, "tags = "+next(tags))
	}
	if upd.AudioURL != nil {
		setClauses = append(setClauses, "audio_url = "+next(*upd.AudioURL))
	}

	query := fmt.Sprintf(`UPDATE recordings SET %s WHERE id = %s
			  RETURNING id, name, duration, location, date, time, tags,
			      remote_file_key, audio_url, created_at, updated_at`,
		strings.Join(setClauses, ", "), next(id))

	rec, err := scanRecording(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRecordingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// DeleteRecording removes the local metadata record.
func (s *Storage) DeleteRecording(ctx context.Context, id string) error {
	const op = "storage.DeleteRecording"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM recordings WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrRecordingNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner) (*models.Recording, error) {
	rec := &models.Recording{}
	var tags []byte
	var remoteFileKey, audioURL sql.NullString
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Duration, &rec.Location,
		&rec.Date, &rec.Time, &tags, &remoteFileKey, &audioURL,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &rec.Tags); err != nil {
			return nil, err
		}
	}
	if remoteFileKey.Valid {
		rec.RemoteFileKey = &remoteFileKey.String
	}
	if audioURL.Valid {
		rec.AudioURL = &audioURL.String
	}
	return rec, nil
}

func marshalTags(tags []models.Tag) ([]byte, error) {
	if tags == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(tags)
}
