package models

type WorkExperience struct {
	JobTitle    string `json:"job_title" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
}

type Education struct {
	Degree string `json:"degree" validate:"required"`
	School string `json:"school" validate:"required"`
}

// CoverLetterRequest is the body of POST /generate-cover-letter. The list
// fields must be present but may be empty.
type CoverLetterRequest struct {
	FullName       string           `json:"full_name" validate:"required"`
	Email          string           `json:"email" validate:"required,email"`
	PhoneNumber    string           `json:"phone_number"`
	County         string           `json:"county"`
	AdvertisedJob  string           `json:"advertised_job" validate:"required"`
	CompanyName    string           `json:"company_name" validate:"required"`
	WorkExperience []WorkExperience `json:"work_experience" validate:"required,dive"`
	Education      []Education      `json:"education" validate:"required,dive"`
	Skills         []string         `json:"skills" validate:"required,dive,required"`
}

type ATSRequest struct {
	Content  string `json:"content" validate:"required"`
	JobTitle string `json:"jobTitle" validate:"required"`
}

// ATSUploadRequest holds the non-file fields of POST /analyze-ats/upload.
type ATSUploadRequest struct {
	JobTitle string `form:"jobTitle" validate:"required"`
}
