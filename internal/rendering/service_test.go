package rendering

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
)

const (
	goodSpectrum   = "# LEFT = 10.0 ppm, RIGHT = 0.0 ppm\n# SIZE = 5\n1.0\n2.0\n3.0\n4.0\n5.0\n"
	headerlessFile = "1.0\n2.0\n3.0\n"
)

// MockRenderRepository implements repository.RenderRepository for testing
type MockRenderRepository struct {
	mock.Mock
}

func (m *MockRenderRepository) Create(ctx context.Context, job *models.RenderJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockRenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RenderJob), args.Error(1)
}

func (m *MockRenderRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.RenderJob, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*models.RenderJob), args.Error(1)
}

func (m *MockRenderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockRenderRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockRenderRepository) StoreResult(ctx context.Context, result *models.RenderResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockRenderRepository) GetResult(ctx context.Context, jobID uuid.UUID) (*models.RenderResult, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RenderResult), args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func pendingJob(id uuid.UUID, files ...models.DataFile) *models.RenderJob {
	return &models.RenderJob{
		ID:        id.String(),
		SessionID: "session-1234567890",
		Mode:      "single",
		Quality:   "preview",
		DataFiles: files,
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestProcessRenderPartialParseFailureStillCompletes(t *testing.T) {
	jobID := uuid.New()
	job := pendingJob(jobID,
		models.DataFile{S3Key: "spectra/a.txt", DisplayName: "a.txt"},
		models.DataFile{S3Key: "spectra/b.txt", DisplayName: "b.txt"},
	)

	repo := new(MockRenderRepository)
	s3 := new(MockS3Service)

	repo.On("UpdateStatus", mock.Anything, jobID, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, jobID).Return(job, nil)
	s3.On("DownloadFile", mock.Anything, "spectra/a.txt").Return([]byte(goodSpectrum), nil)
	s3.On("DownloadFile", mock.Anything, "spectra/b.txt").Return([]byte(headerlessFile), nil)
	s3.On("UploadFile", mock.Anything, "figures/"+jobID.String()+".png", mock.Anything, "image/png").Return(nil)

	var stored *models.RenderResult
	repo.On("StoreResult", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.RenderResult)
	}).Return(nil)

	svc := NewRenderService(s3, repo)
	err := svc.ProcessRender(context.Background(), jobID)
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateStatus", mock.Anything, jobID, "completed", 100)
	repo.AssertNotCalled(t, "UpdateError", mock.Anything, mock.Anything, mock.Anything)

	require.NotNil(t, stored)
	require.Len(t, stored.Spectra, 1)
	assert.Equal(t, "a.txt", stored.Spectra[0].Label)
	assert.Equal(t, 5, stored.Spectra[0].Points)
	require.Len(t, stored.ParseErrors, 1)
	assert.Equal(t, "b.txt", stored.ParseErrors[0].Label)
}

func TestProcessRenderAllFilesFail(t *testing.T) {
	jobID := uuid.New()
	job := pendingJob(jobID,
		models.DataFile{S3Key: "spectra/a.txt", DisplayName: "a.txt"},
	)

	repo := new(MockRenderRepository)
	s3 := new(MockS3Service)

	repo.On("UpdateStatus", mock.Anything, jobID, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, jobID).Return(job, nil)
	s3.On("DownloadFile", mock.Anything, "spectra/a.txt").Return([]byte(headerlessFile), nil)
	repo.On("UpdateError", mock.Anything, jobID, mock.Anything).Return(nil)

	svc := NewRenderService(s3, repo)
	err := svc.ProcessRender(context.Background(), jobID)
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateError", mock.Anything, jobID, mock.Anything)
	repo.AssertNotCalled(t, "StoreResult", mock.Anything, mock.Anything)
}

func TestProcessRenderInvalidRangeFailsJob(t *testing.T) {
	jobID := uuid.New()
	xMin, xMax := 9.0, 1.0
	job := pendingJob(jobID, models.DataFile{S3Key: "spectra/a.txt", DisplayName: "a.txt"})
	job.XMin = &xMin
	job.XMax = &xMax

	repo := new(MockRenderRepository)
	s3 := new(MockS3Service)

	repo.On("UpdateStatus", mock.Anything, jobID, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, jobID).Return(job, nil)
	s3.On("DownloadFile", mock.Anything, "spectra/a.txt").Return([]byte(goodSpectrum), nil)
	repo.On("UpdateError", mock.Anything, jobID, mock.MatchedBy(func(msg string) bool {
		return len(msg) > 0
	})).Return(nil)

	svc := NewRenderService(s3, repo)
	err := svc.ProcessRender(context.Background(), jobID)
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateError", mock.Anything, jobID, mock.Anything)
	s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
