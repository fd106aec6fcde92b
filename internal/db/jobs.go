package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/bestintern/internal/types"
)

// Table names.
const (
	JobsTable       = "jobs"
	JobVectorsTable = "job_vectors"
	ResumesTable    = "resumes"
)

// Job is a stored job posting.
type Job struct {
	ID        uuid.UUID `json:"id"`
	URL       *string   `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	types.JobMetadata
}

// JobVector is an embedding of a stored job.
type JobVector struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// Resume is a stored resume extraction.
type Resume struct {
	ID        uuid.UUID            `json:"id"`
	Source    *string              `json:"source,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Data      types.ResumeMetadata `json:"data"`
}

const jobColumns = `id, url, job_title, company, location, skills_required, education_required,
	experience_required, job_description, salary_range, job_type, application_url,
	posted_date, deadline, company_size, industry, benefits, remote, created_at`

// JobRow maps a job posting onto the columns of the jobs table.
func JobRow(job *types.JobMetadata, url string) map[string]any {
	row := map[string]any{
		"job_title":           job.JobTitle,
		"company":             job.Company,
		"location":            job.Location,
		"skills_required":     job.SkillsRequired,
		"education_required":  job.EducationRequired,
		"experience_required": job.ExperienceRequired,
		"job_description":     job.JobDescription,
		"salary_range":        job.SalaryRange,
		"job_type":            job.JobType,
		"application_url":     job.ApplicationURL,
		"posted_date":         dateValue(job.PostedDate),
		"deadline":            dateValue(job.Deadline),
		"company_size":        job.CompanySize,
		"industry":            job.Industry,
		"benefits":            job.Benefits,
		"remote":              job.Remote,
	}
	if url != "" {
		row["url"] = url
	}
	return row
}

func dateValue(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func dateFrom(t *time.Time) *types.Date {
	if t == nil {
		return nil
	}
	return &types.Date{Time: *t}
}

// InsertJob stores a job posting scraped from url and returns its id.
func (db *DB) InsertJob(ctx context.Context, job *types.JobMetadata, url string) (uuid.UUID, error) {
	row, err := db.InsertRow(ctx, JobsTable, JobRow(job, url))
	if err != nil {
		return uuid.Nil, err
	}
	return rowID(row)
}

// InsertJobVector stores an embedding for a job and returns its id.
func (db *DB) InsertJobVector(ctx context.Context, jobID uuid.UUID, vector []float64) (uuid.UUID, error) {
	if len(vector) == 0 {
		return uuid.Nil, fmt.Errorf("empty vector for job %s", jobID)
	}
	row, err := db.InsertRow(ctx, JobVectorsTable, map[string]any{
		"job_id": jobID,
		"vector": vector,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return rowID(row)
}

// GetJobVectors returns every stored job embedding.
func (db *DB) GetJobVectors(ctx context.Context) ([]JobVector, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, vector, created_at FROM job_vectors ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job vectors: %w", err)
	}
	defer rows.Close()

	var vectors []JobVector
	for rows.Next() {
		var v JobVector
		if err := rows.Scan(&v.ID, &v.JobID, &v.Vector, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job vector: %w", err)
		}
		vectors = append(vectors, v)
	}
	return vectors, rows.Err()
}

// GetJobsByIDs returns the jobs with the given ids, in no particular order.
// Unknown ids are skipped.
func (db *DB) GetJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]Job, error) {
	if len(ids) == 0 {
		return []Job{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(rows pgx.Rows) (Job, error) {
	var j Job
	var posted, deadline *time.Time
	err := rows.Scan(&j.ID, &j.URL, &j.JobTitle, &j.Company, &j.Location,
		&j.SkillsRequired, &j.EducationRequired, &j.ExperienceRequired,
		&j.JobDescription, &j.SalaryRange, &j.JobType, &j.ApplicationURL,
		&posted, &deadline, &j.CompanySize, &j.Industry, &j.Benefits, &j.Remote,
		&j.CreatedAt)
	if err != nil {
		return Job{}, fmt.Errorf("failed to scan job: %w", err)
	}
	j.PostedDate = dateFrom(posted)
	j.Deadline = dateFrom(deadline)
	return j, nil
}

// InsertResume stores a resume extraction and returns its id. source
// records where the document came from (a path or object key).
func (db *DB) InsertResume(ctx context.Context, resume *types.ResumeMetadata, source string) (uuid.UUID, error) {
	data, err := json.Marshal(resume)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	row := map[string]any{
		"name":  resume.Name,
		"email": resume.Email,
		"phone": resume.Phone,
		"data":  data,
	}
	if source != "" {
		row["source"] = source
	}
	inserted, err := db.InsertRow(ctx, ResumesTable, row)
	if err != nil {
		return uuid.Nil, err
	}
	return rowID(inserted)
}

// GetResume returns a stored resume, or nil when id is unknown.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var (
		r    Resume
		data []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, created_at, data FROM resumes WHERE id = $1`, id,
	).Scan(&r.ID, &r.Source, &r.CreatedAt, &data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	return &r, nil
}

func rowID(row Row) (uuid.UUID, error) {
	switch id := row["id"].(type) {
	case uuid.UUID:
		return id, nil
	case string:
		return uuid.Parse(id)
	default:
		return uuid.Nil, fmt.Errorf("row has no uuid id: %v", row["id"])
	}
}
