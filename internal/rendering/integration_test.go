package rendering

import (
	"bytes"
	"context"
	"database/sql"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	mc "github.com/minio/minio-go/v7"
	mccredentials "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Adina012/multifid-1d-nmr-plot/internal/repository/postgres"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/storage"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	// Start PostgreSQL container
	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("multifid_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start MinIO container
	minioC, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)

	minioURL, err := minioC.ConnectionString(ctx)
	require.NoError(t, err)

	bucketName := "multifid-test-" + uuid.New().String()[:8]
	require.NoError(t, createMinioBucket(ctx, minioURL, bucketName))

	return &TestContainer{
		postgresContainer: pg,
		minioContainer:    minioC,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        bucketName,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

// createMinioBucket creates a bucket in MinIO for testing
func createMinioBucket(ctx context.Context, minioURL, bucketName string) error {
	client, err := mc.New(minioURL, &mc.Options{
		Creds:  mccredentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		return err
	}
	return client.MakeBucket(ctx, bucketName, mc.MakeBucketOptions{})
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	schema, err := os.ReadFile("../../migrations/000001_create_render_jobs.up.sql")
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)
}

// TestFullRenderPipeline_Integration runs the upload-parse-render-store
// pipeline against real Postgres and MinIO containers.
func TestFullRenderPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()
	runMigrations(t, db)

	repo := postgres.NewPostgresRenderRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	renderService := NewRenderService(s3Service, repo)

	// Upload two spectrum files, one of them malformed
	jobID := uuid.New()
	goodKey := "spectra/" + jobID.String() + "/00.txt"
	badKey := "spectra/" + jobID.String() + "/01.txt"
	require.NoError(t, s3Service.UploadFile(ctx, goodKey, []byte(goodSpectrum), "text/plain"))
	require.NoError(t, s3Service.UploadFile(ctx, badKey, []byte(headerlessFile), "text/plain"))

	job := pendingJob(jobID,
		models.DataFile{S3Key: goodKey, DisplayName: "ethanol-400mhz.txt"},
		models.DataFile{S3Key: badKey, DisplayName: "broken.txt"},
	)
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, renderService.ProcessRender(ctx, jobID))

	// Verify the job completed with the malformed file recorded as a warning
	final, err := repo.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 100, final.Progress)
	assert.NotNil(t, final.CompletedAt)

	result, err := repo.GetResult(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, result.Spectra, 1)
	assert.Equal(t, "ethanol-400mhz.txt", result.Spectra[0].Label)
	assert.Equal(t, 10.0, result.Spectra[0].Left)
	assert.Equal(t, 0.0, result.Spectra[0].Right)
	require.Len(t, result.ParseErrors, 1)
	assert.Equal(t, "broken.txt", result.ParseErrors[0].Label)

	// Verify the stored figure is a decodable PNG
	figureData, err := s3Service.DownloadFile(ctx, result.FigureS3Key)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(figureData))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

// TestRenderPipelineFailure_Integration verifies a job whose files were
// never uploaded ends up failed, not stuck.
func TestRenderPipelineFailure_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()
	runMigrations(t, db)

	repo := postgres.NewPostgresRenderRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	renderService := NewRenderService(s3Service, repo)

	jobID := uuid.New()
	job := pendingJob(jobID, models.DataFile{S3Key: "spectra/missing.txt", DisplayName: "missing.txt"})
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, renderService.ProcessRender(ctx, jobID))

	final, err := repo.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "failed", final.Status)
	require.NotNil(t, final.ErrorMsg)
	assert.Contains(t, *final.ErrorMsg, "missing.txt")
}
