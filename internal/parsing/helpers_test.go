package parsing

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/types"
)

// fakeModel replays scripted responses and records every prompt it receives.
type fakeModel struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func (f *fakeModel) Model() llm.Model { return llm.ModelGeminiFlash }
func (f *fakeModel) Close() error     { return nil }

type fakeEmbedder struct {
	vector []float32
	err    error
	texts  []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	return f.vector, f.err
}

type fakeStore struct {
	jobs     map[uuid.UUID]string
	vectors  map[uuid.UUID][]float64
	resumes  map[uuid.UUID]string
	failJobs bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:    map[uuid.UUID]string{},
		vectors: map[uuid.UUID][]float64{},
		resumes: map[uuid.UUID]string{},
	}
}

func (s *fakeStore) InsertJob(_ context.Context, job *types.JobMetadata, url string) (uuid.UUID, error) {
	if s.failJobs {
		return uuid.Nil, fmt.Errorf("connection refused")
	}
	id := uuid.New()
	s.jobs[id] = url
	return id, nil
}

func (s *fakeStore) InsertJobVector(_ context.Context, jobID uuid.UUID, vector []float64) (uuid.UUID, error) {
	s.vectors[jobID] = vector
	return uuid.New(), nil
}

func (s *fakeStore) InsertResume(_ context.Context, resume *types.ResumeMetadata, source string) (uuid.UUID, error) {
	id := uuid.New()
	s.resumes[id] = resume.Name + "@" + source
	return id, nil
}

type mapObjects map[string][]byte

func (m mapObjects) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

// buildPDF writes a minimal single-font PDF with one line of text per page.
func buildPDF(pages ...string) []byte {
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pages {
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

const validResume = `{
	"name": "Ada Lovelace",
	"email": "ada@example.com",
	"phone": "555-0100",
	"skills": ["Go", "SQL"],
	"education": [{
		"institution": "UCL",
		"degree": "BSc",
		"field_of_study": "Mathematics",
		"start_date": "2019-09-01"
	}],
	"experience": []
}`

const validJob = `{
	"job_title": "Backend Intern", "company": "Acme", "location": "Remote",
	"skills_required": ["Go", "SQL"], "education_required": null, "experience_required": null,
	"job_description": "Build payment rails.", "salary_range": null, "job_type": "internship",
	"application_url": null, "posted_date": null, "deadline": null,
	"company_size": null, "industry": "Fintech", "benefits": null, "remote": true
}`
