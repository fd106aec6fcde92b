package pdf

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`\b(?:\+?1[-.]?)?\(?[2-9][0-8][0-9]\)?[-.]?[2-9][0-9]{2}[-.]?[0-9]{4}\b`)
	locationPattern = regexp.MustCompile(`\b(?:[A-Z][a-z]+(?:\s[A-Z][a-z]+)*,\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?)\b`)
	educationSplit  = regexp.MustCompile(`(?i)\b(?:degree|bachelor|master|phd|diploma|certificate)\b`)
	skillPattern    = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	months        = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`
	periodPattern = regexp.MustCompile(`\b` + months + `\s\d{4}\s*-\s*` + months + `\s\d{4}|\bPresent\b`)
)

// commonWords are capitalized words that are never reported as skills.
var commonWords = map[string]struct{}{
	"The": {}, "And": {}, "Or": {}, "In": {}, "On": {}, "At": {}, "To": {}, "For": {},
	"With": {}, "By": {}, "From": {}, "Up": {}, "About": {}, "Into": {}, "Over": {}, "After": {},
}

// WorkExperience is a dated entry found in the document.
type WorkExperience struct {
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Metadata bundles every pattern extractor.
type Metadata struct {
	Emails         []string         `json:"emails"`
	PhoneNumbers   []string         `json:"phone_numbers"`
	Locations      []string         `json:"locations"`
	Education      []string         `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Skills         []string         `json:"skills"`
}

// ExtractEmails returns the distinct email addresses, sorted.
func (r *Reader) ExtractEmails() []string {
	return uniqueSorted(emailPattern.FindAllString(r.text, -1))
}

// ExtractPhoneNumbers returns the distinct North American phone numbers, sorted.
func (r *Reader) ExtractPhoneNumbers() []string {
	return uniqueSorted(phonePattern.FindAllString(r.text, -1))
}

// ExtractLocations returns distinct "City, ST 12345" locations, sorted.
func (r *Reader) ExtractLocations() []string {
	return uniqueSorted(locationPattern.FindAllString(r.text, -1))
}

// ExtractEducation returns the first line following each education keyword.
func (r *Reader) ExtractEducation() []string {
	sections := educationSplit.Split(r.text, -1)
	info := []string{}
	if len(sections) < 2 {
		return info
	}
	for _, section := range sections[1:] {
		first, _, _ := strings.Cut(strings.TrimSpace(section), "\n")
		info = append(info, strings.TrimSpace(first))
	}
	return info
}

// ExtractWorkExperience returns each "Month YYYY - Month YYYY" (or "Present")
// period with the text that follows it up to the next blank line.
func (r *Reader) ExtractWorkExperience() []WorkExperience {
	experiences := []WorkExperience{}
	text := r.text
	pos := 0
	for pos < len(text) {
		loc := periodPattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		periodStart, periodEnd := pos+loc[0], pos+loc[1]

		descStart := periodEnd
		for descStart < len(text) && isSpace(text[descStart]) {
			descStart++
		}
		descEnd := len(text)
		if idx := strings.Index(text[descStart:], "\n\n"); idx >= 0 {
			descEnd = descStart + idx
		}

		experiences = append(experiences, WorkExperience{
			Period:      strings.TrimSpace(text[periodStart:periodEnd]),
			Description: strings.TrimSpace(text[descStart:descEnd]),
		})
		pos = descEnd
	}
	return experiences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// ExtractSkills returns distinct capitalized phrases that are not common words, sorted.
func (r *Reader) ExtractSkills() []string {
	var skills []string
	for _, s := range skillPattern.FindAllString(r.text, -1) {
		if _, common := commonWords[s]; !common {
			skills = append(skills, s)
		}
	}
	return uniqueSorted(skills)
}

// ExtractMetadata runs every extractor.
func (r *Reader) ExtractMetadata() Metadata {
	return Metadata{
		Emails:         r.ExtractEmails(),
		PhoneNumbers:   r.ExtractPhoneNumbers(),
		Locations:      r.ExtractLocations(),
		Education:      r.ExtractEducation(),
		WorkExperience: r.ExtractWorkExperience(),
		Skills:         r.ExtractSkills(),
	}
}

func uniqueSorted(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{}
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
