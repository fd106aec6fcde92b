// Package types provides type definitions for structured data extracted by bestintern.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeMetadata is the structured form of a candidate resume
type ResumeMetadata struct {
	Name                      string                    `json:"name"`
	Email                     string                    `json:"email"`
	Phone                     string                    `json:"phone"`
	Summary                   *string                   `json:"summary,omitempty"`
	Skills                    []string                  `json:"skills"`
	Education                 []Education               `json:"education" validate:"dive"`
	Experience                []Experience              `json:"experience" validate:"dive"`
	Internships               []Experience              `json:"internships,omitempty" validate:"omitempty,dive"`
	Certifications            []Certification           `json:"certifications,omitempty" validate:"omitempty,dive"`
	Projects                  []Project                 `json:"projects,omitempty" validate:"omitempty,dive"`
	Languages                 []string                  `json:"languages,omitempty"`
	ExtracurricularActivities []ExtracurricularActivity `json:"extracurricular_activities,omitempty" validate:"omitempty,dive"`
	Awards                    []string                  `json:"awards,omitempty"`
}

// Education is a single degree or program
type Education struct {
	Institution     string   `json:"institution"`
	Degree          string   `json:"degree"`
	FieldOfStudy    string   `json:"field_of_study"`
	StartDate       Date     `json:"start_date"`
	EndDate         *Date    `json:"end_date,omitempty"`
	GPA             *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0"`
	RelevantCourses []string `json:"relevant_courses,omitempty"`
}

// Experience is a job or internship
type Experience struct {
	JobTitle    string  `json:"job_title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	StartDate   Date    `json:"start_date"`
	EndDate     *Date   `json:"end_date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Project is a personal or academic project
type Project struct {
	Title            string   `json:"title"`
	Description      *string  `json:"description,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
	StartDate        *Date    `json:"start_date,omitempty"`
	EndDate          *Date    `json:"end_date,omitempty"`
}

// Certification is a professional certificate
type Certification struct {
	Name                string  `json:"name"`
	IssuingOrganization string  `json:"issuing_organization"`
	IssueDate           Date    `json:"issue_date"`
	ExpirationDate      *Date   `json:"expiration_date,omitempty"`
	CredentialID        *string `json:"credential_id,omitempty"`
	CredentialURL       *string `json:"credential_url,omitempty"`
}

// ExtracurricularActivity is a club, society or volunteer role
type ExtracurricularActivity struct {
	Name        string  `json:"name"`
	Position    *string `json:"position,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *Date   `json:"start_date,omitempty"`
	EndDate     *Date   `json:"end_date,omitempty"`
}
