package saramin

import (
	"strconv"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

// Jobs is a collection of postings returned by the job-search endpoint.
type Jobs struct {
	Items []*Job
}

// Job mirrors the nested wire shape of one posting. Timestamps arrive as
// strings and are parsed during conversion; unparseable values become zero so
// downstream scoring falls back to its neutral defaults.
type Job struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Active  int    `json:"active,omitempty"`
	Company struct {
		Detail struct {
			Name string `json:"name,omitempty"`
			Type struct {
				Name string `json:"name,omitempty"`
			} `json:"type,omitempty"`
			Size struct {
				Name string `json:"name,omitempty"`
			} `json:"size,omitempty"`
		} `json:"detail,omitempty"`
	} `json:"company,omitempty"`
	Position struct {
		Title    string `json:"title,omitempty"`
		Industry struct {
			Code string `json:"code,omitempty"`
			Name string `json:"name,omitempty"`
		} `json:"industry,omitempty"`
		Location struct {
			Code string `json:"code,omitempty"`
			Name string `json:"name,omitempty"`
		} `json:"location,omitempty"`
		JobType struct {
			Code string `json:"code,omitempty"`
			Name string `json:"name,omitempty"`
		} `json:"job-type,omitempty"`
		ExperienceLevel struct {
			Name string `json:"name,omitempty"`
		} `json:"experience-level,omitempty"`
		RequiredEducationLevel struct {
			Name string `json:"name,omitempty"`
		} `json:"required-education-level,omitempty"`
	} `json:"position,omitempty"`
	Salary struct {
		Code string `json:"code,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"salary,omitempty"`
	KeywordCode         string `json:"keyword-code,omitempty"`
	PostingTimestamp    string `json:"posting-timestamp,omitempty"`
	ExpirationTimestamp string `json:"expiration-timestamp,omitempty"`
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Postings converts the wire jobs to the engine's posting type.
func (j *Jobs) Postings() []recommend.JobPosting {
	postings := make([]recommend.JobPosting, 0, len(j.Items))
	for _, job := range j.Items {
		postings = append(postings, job.Posting())
	}
	return postings
}

// Posting flattens the nested wire shape into a JobPosting.
func (j *Job) Posting() recommend.JobPosting {
	return recommend.JobPosting{
		ID:           j.ID,
		Title:        j.Position.Title,
		Company:      j.Company.Detail.Name,
		CompanyType:  j.Company.Detail.Type.Name,
		CompanySize:  j.Company.Detail.Size.Name,
		Industry:     j.Position.Industry.Name,
		IndustryCode: j.Position.Industry.Code,
		Location:     j.Position.Location.Name,
		JobType:      j.Position.JobType.Name,
		Experience:   j.Position.ExperienceLevel.Name,
		Education:    j.Position.RequiredEducationLevel.Name,
		Salary:       j.Salary.Name,
		KeywordCode:  j.KeywordCode,
		URL:          j.URL,
		PostingTS:    parseTimestamp(j.PostingTimestamp),
		ExpirationTS: parseTimestamp(j.ExpirationTimestamp),
	}
}

func parseTimestamp(s string) int64 {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
