package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
)

func TestStorage_Users_RegisterAndVerifyFlow(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	token := "deadbeefcafe"

	id, err := storage.CreateUser(ctx, models.User{
		Email:             "ana@vocesdelaextincion.org",
		PasswordHash:      "hashedpassword",
		VerificationToken: &token,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Duplicate email must map to ErrDuplicate.
	_, err = storage.CreateUser(ctx, models.User{
		Email:             "ana@vocesdelaextincion.org",
		PasswordHash:      "otherhash",
		VerificationToken: &token,
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	user, err := storage.GetUserByEmail(ctx, "ana@vocesdelaextincion.org")
	require.NoError(t, err)
	assert.False(t, user.Verified)
	require.NotNil(t, user.VerificationToken)
	assert.Equal(t, token, *user.VerificationToken)

	verified, err := storage.VerifyByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, id, verified.ID)

	// Token is single-use: the same token cannot verify twice.
	_, err = storage.VerifyByToken(ctx, token)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err = storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, user.Verified)
	assert.Nil(t, user.VerificationToken)

	// Credentials of a verified user cannot be overwritten by re-registration.
	err = storage.UpdateUnverifiedCredentials(ctx, id, "newhash", "newtoken")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_Users_Delete(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	id := factory.CreateUser(t, "luis@vocesdelaextincion.org", "hash", false, nil)

	require.NoError(t, storage.DeleteUser(ctx, id))

	_, err := storage.GetUserByID(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = storage.DeleteUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_Recordings_CRUD(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	rec := GetTestRecording()

	require.NoError(t, storage.CreateRecording(ctx, rec))

	// A second recording referencing the same remote object is a duplicate.
	dup := GetTestRecording()
	dup.ID = uuid.New().String()
	dup.RemoteFileKey = rec.RemoteFileKey
	assert.ErrorIs(t, storage.CreateRecording(ctx, dup), ErrDuplicate)

	got, err := storage.GetRecording(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Tags, got.Tags)
	require.NotNil(t, got.RemoteFileKey)
	assert.Equal(t, *rec.RemoteFileKey, *got.RemoteFileKey)

	list, err := storage.ListRecordings(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	newName := "Yaguareté al atardecer"
	updated, err := storage.UpdateRecording(ctx, rec.ID, models.DummyRecordingUpdate{Name: &newName}, nil)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	// Omitted fields keep their stored values.
	assert.Equal(t, rec.Location, updated.Location)
	assert.Equal(t, rec.Tags, updated.Tags)

	require.NoError(t, storage.DeleteRecording(ctx, rec.ID))
	_, err = storage.GetRecording(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	assert.ErrorIs(t, storage.DeleteRecording(ctx, rec.ID), ErrRecordingNotFound)
}

func TestStorage_Recordings_UpdateNotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	name := "missing"
	_, err := storage.UpdateRecording(context.Background(), uuid.New().String(),
		models.DummyRecordingUpdate{Name: &name}, nil)
	assert.ErrorIs(t, err, ErrRecordingNotFound)
}
