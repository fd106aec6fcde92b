package parsing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/types"
)

// JobStore persists jobs and their embeddings. *db.DB satisfies it.
type JobStore interface {
	InsertJob(ctx context.Context, job *types.JobMetadata, url string) (uuid.UUID, error)
	InsertJobVector(ctx context.Context, jobID uuid.UUID, vector []float64) (uuid.UUID, error)
}

// ResumeStore persists resumes. *db.DB satisfies it.
type ResumeStore interface {
	InsertResume(ctx context.Context, resume *types.ResumeMetadata, source string) (uuid.UUID, error)
}

// SavedJob identifies the rows written by SaveJob.
type SavedJob struct {
	JobID    uuid.UUID  `json:"job_id"`
	VectorID *uuid.UUID `json:"vector_id,omitempty"`
}

// SaveJob stores a parsed job. When embedder is non-nil and the job has a
// description, the description embedding is stored as well.
func SaveJob(ctx context.Context, store JobStore, result *JobResult, embedder llm.Embedder) (*SavedJob, error) {
	if result == nil || result.Result == nil {
		return nil, &ValidationError{Message: "nothing to save", Field: "result"}
	}
	log := logger.Component("parsing")

	job := &result.Data
	jobID, err := store.InsertJob(ctx, job, result.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to save job %s: %w", result.URL, err)
	}
	saved := &SavedJob{JobID: jobID}

	if embedder == nil || job.JobDescription == nil || *job.JobDescription == "" {
		log.Info().Str("job_id", jobID.String()).Msg("saved job")
		return saved, nil
	}

	embedding, err := embedder.Embed(ctx, *job.JobDescription)
	if err != nil {
		return saved, &APICallError{Message: fmt.Sprintf("failed to embed job %s", jobID), Cause: err}
	}
	vectorID, err := store.InsertJobVector(ctx, jobID, toFloat64(embedding))
	if err != nil {
		return saved, fmt.Errorf("failed to save vector for job %s: %w", jobID, err)
	}
	saved.VectorID = &vectorID

	log.Info().
		Str("job_id", jobID.String()).
		Str("vector_id", vectorID.String()).
		Int("dimensions", len(embedding)).
		Msg("saved job")
	return saved, nil
}

// SaveResume stores a parsed resume and returns its id.
func SaveResume(ctx context.Context, store ResumeStore, result *ResumeResult, source string) (uuid.UUID, error) {
	if result == nil {
		return uuid.Nil, &ValidationError{Message: "nothing to save", Field: "result"}
	}
	id, err := store.InsertResume(ctx, &result.Data, source)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume: %w", err)
	}
	log := logger.Component("parsing")
	log.Info().Str("resume_id", id.String()).Str("source", source).Msg("saved resume")
	return id, nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
