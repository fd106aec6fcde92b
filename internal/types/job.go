package types

// JobMetadata is the structured form of a job posting.
// Every field must be present in extracted output but may be null.
type JobMetadata struct {
	JobTitle           *string  `json:"job_title" schema:"nullable"`
	Company            *string  `json:"company" schema:"nullable"`
	Location           *string  `json:"location" schema:"nullable"`
	SkillsRequired     []string `json:"skills_required" schema:"nullable"`
	EducationRequired  []string `json:"education_required" schema:"nullable"`
	ExperienceRequired []string `json:"experience_required" schema:"nullable"`
	JobDescription     *string  `json:"job_description" schema:"nullable"`
	SalaryRange        *string  `json:"salary_range" schema:"nullable"`
	JobType            *string  `json:"job_type" schema:"nullable"`
	ApplicationURL     *string  `json:"application_url" schema:"nullable"`
	PostedDate         *Date    `json:"posted_date" schema:"nullable"`
	Deadline           *Date    `json:"deadline" schema:"nullable"`
	CompanySize        *string  `json:"company_size" schema:"nullable"`
	Industry           *string  `json:"industry" schema:"nullable"`
	Benefits           []string `json:"benefits" schema:"nullable"`
	Remote             *bool    `json:"remote" schema:"nullable"`
}
