package recommend

import "time"

// Trainee is one job seeker in a batch run. Records are immutable during
// ranking; optional fields are empty strings when the source table had no
// value.
type Trainee struct {
	ID                 string
	Name               string
	Course             string
	TrainingType       string
	CourseKeywords     string
	PreferredLocations []string
	DesiredJob         string
	DesiredIndustry    string
	DesiredPay         string
	FuturePlan         string
	SurveyText         string
}

// JobPosting is one de-duplicated, read-only job record handed to the engine.
type JobPosting struct {
	ID           string
	Title        string
	Company      string
	CompanyType  string
	CompanySize  string
	Industry     string
	IndustryCode string
	Location     string
	JobType      string
	Experience   string
	Education    string
	Salary       string
	KeywordCode  string
	URL          string
	PostingTS    int64
	ExpirationTS int64
}

// IsActive reports whether the posting has not expired at the given time.
// A posting without an expiration timestamp counts as active.
func (j JobPosting) IsActive(now time.Time) bool {
	return j.ExpirationTS == 0 || j.ExpirationTS > now.Unix()
}

// ScoreBreakdown holds the five component scores and the derived final score
// for one (trainee, job) pair. The final score is the weighted sum rounded to
// four decimal places.
type ScoreBreakdown struct {
	Semantic       float64
	CourseIndustry float64
	Location       float64
	Diversity      float64
	Freshness      float64
	Final          float64
}

// Recommendation is one ranked pick for a trainee. Job display fields are
// denormalized for downstream consumers.
type Recommendation struct {
	TraineeID   string
	TraineeName string
	Rank        int
	JobID       string
	JobTitle    string
	Company     string
	Industry    string
	Location    string
	JobType     string
	JobURL      string
	Scores      ScoreBreakdown
}
