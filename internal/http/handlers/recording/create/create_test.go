package create_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/create"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, entry models.DummyRecording, file *models.UploadedFile) (*models.Recording, error) {
	args := m.Called(ctx, entry, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recording), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validJSON = `{
	"name": "Canto del hornero",
	"duration": "00:02:13",
	"location": "Reserva Costanera Sur",
	"date": "2024-11-03",
	"time": "06:45",
	"tags": [{"value":"ave","label":"Ave"}]
}`

func TestCreateHandler_JSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(s *MockService)
		wantStatus int
		wantInBody string
	}{
		{
			name: "successful creation",
			body: validJSON,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.MatchedBy(func(entry models.DummyRecording) bool {
					return entry.Name == "Canto del hornero" && len(entry.Tags) > 0
				}), (*models.UploadedFile)(nil)).
					Return(&models.Recording{ID: "rec-1", Name: "Canto del hornero"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantInBody: "rec-1",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			setupMocks: func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid request body",
		},
		{
			name:       "missing required fields",
			body:       `{"name":"solo nombre"}`,
			setupMocks: func(*MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "required field",
		},
		{
			name: "invalid tags",
			body: `{"name":"x","duration":"1","location":"y","date":"d","time":"t","tags":[{"value":"ave"}]}`,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.Anything, (*models.UploadedFile)(nil)).
					Return(nil, models.ErrInvalidTags).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid tags",
		},
		{
			name: "duplicate audio reference",
			body: validJSON,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.Anything, (*models.UploadedFile)(nil)).
					Return(nil, storage.ErrDuplicate).Once()
			},
			wantStatus: http.StatusConflict,
			wantInBody: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)

			handler := create.New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/recordings", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantInBody)
			service.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_Multipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	require.NoError(t, writer.WriteField("name", "Canto del hornero"))
	require.NoError(t, writer.WriteField("duration", "00:02:13"))
	require.NoError(t, writer.WriteField("location", "Reserva Costanera Sur"))
	require.NoError(t, writer.WriteField("date", "2024-11-03"))
	require.NoError(t, writer.WriteField("time", "06:45"))
	require.NoError(t, writer.WriteField("tags", `[{"value":"ave","label":"Ave"}]`))

	part, err := writer.CreateFormFile("audioFile", "hornero.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	service := new(MockService)
	service.On("Create", mock.Anything, mock.MatchedBy(func(entry models.DummyRecording) bool {
		return entry.Name == "Canto del hornero" && len(entry.Tags) > 0
	}), mock.MatchedBy(func(file *models.UploadedFile) bool {
		return file != nil && file.Name == "hornero.mp3" && string(file.Data) == "fake-audio-bytes"
	})).Return(&models.Recording{ID: "rec-1"}, nil).Once()

	handler := create.New(newNoopLogger(), service)

	req := httptest.NewRequest(http.MethodPost, "/recordings", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	service.AssertExpectations(t)
}

func TestCreateHandler_MultipartWithoutFile(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	require.NoError(t, writer.WriteField("name", "Canto del hornero"))
	require.NoError(t, writer.WriteField("duration", "00:02:13"))
	require.NoError(t, writer.WriteField("location", "Reserva Costanera Sur"))
	require.NoError(t, writer.WriteField("date", "2024-11-03"))
	require.NoError(t, writer.WriteField("time", "06:45"))
	require.NoError(t, writer.Close())

	service := new(MockService)
	service.On("Create", mock.Anything, mock.Anything, (*models.UploadedFile)(nil)).
		Return(&models.Recording{ID: "rec-2"}, nil).Once()

	handler := create.New(newNoopLogger(), service)

	req := httptest.NewRequest(http.MethodPost, "/recordings", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	service.AssertExpectations(t)
}
