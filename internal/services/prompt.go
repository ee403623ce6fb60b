package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-assistant/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCoverLetterPrompt creates the cover letter prompt. Every field is
// embedded verbatim; list fields keep their original order.
func (pb *PromptBuilder) BuildCoverLetterPrompt(req *models.CoverLetterRequest) string {
	return fmt.Sprintf(`Generate a highly professional and persuasive cover letter.

Candidate Info:
Full Name: %s
Email: %s
Phone: %s
County: %s

Job Applying For: %s
Company: %s

Work Experience: %s
Education Background: %s
Key Skills: %s

Use a convincing and formal tone. Include a subject line (RE:...), a body with 3–4 paragraphs, and a sign-off with the candidate’s name and contact details. Output ONLY the letter.`,
		req.FullName,
		req.Email,
		req.PhoneNumber,
		req.County,
		req.AdvertisedJob,
		req.CompanyName,
		FormatWorkExperience(req.WorkExperience),
		FormatEducation(req.Education),
		FormatSkills(req.Skills),
	)
}

// BuildATSPrompt creates the ATS compatibility prompt.
func (pb *PromptBuilder) BuildATSPrompt(jobTitle, content string) string {
	return fmt.Sprintf("Analyze the following resume content for ATS compatibility with a %s role. "+
		"Provide a score out of 100 and detailed feedback on keyword usage, structure, and potential improvements: %s",
		jobTitle, content)
}

// FormatWorkExperience renders entries as "<title> at <company>" joined by "; ".
func FormatWorkExperience(entries []models.WorkExperience) string {
	parts := make([]string, 0, len(entries))
	for _, exp := range entries {
		parts = append(parts, fmt.Sprintf("%s at %s", exp.JobTitle, exp.CompanyName))
	}
	return strings.Join(parts, "; ")
}

// FormatEducation renders entries as "<degree> from <school>" joined by "; ".
func FormatEducation(entries []models.Education) string {
	parts := make([]string, 0, len(entries))
	for _, edu := range entries {
		parts = append(parts, fmt.Sprintf("%s from %s", edu.Degree, edu.School))
	}
	return strings.Join(parts, "; ")
}

func FormatSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
