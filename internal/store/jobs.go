package store

import (
	"context"
	"time"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

// UpsertJobs inserts the postings, replacing any record that shares a job id.
// It returns the number of postings written.
func (s *Store) UpsertJobs(ctx context.Context, jobs []recommend.JobPosting) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs (
  job_id, title, company, company_type, company_size,
  industry, industry_code, location, job_type,
  experience, education, salary, keyword_code, url,
  posting_ts, expiration_ts, collected_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(job_id) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  company_type = excluded.company_type,
  company_size = excluded.company_size,
  industry = excluded.industry,
  industry_code = excluded.industry_code,
  location = excluded.location,
  job_type = excluded.job_type,
  experience = excluded.experience,
  education = excluded.education,
  salary = excluded.salary,
  keyword_code = excluded.keyword_code,
  url = excluded.url,
  posting_ts = excluded.posting_ts,
  expiration_ts = excluded.expiration_ts,
  collected_at = excluded.collected_at;
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	collectedAt := time.Now().UTC().Format(time.RFC3339)
	for _, job := range jobs {
		if _, err := stmt.ExecContext(ctx,
			job.ID, job.Title, job.Company, job.CompanyType, job.CompanySize,
			job.Industry, job.IndustryCode, job.Location, job.JobType,
			job.Experience, job.Education, job.Salary, job.KeywordCode, job.URL,
			job.PostingTS, job.ExpirationTS, collectedAt,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(jobs), nil
}

// ActiveJobs returns stored postings that have not expired at the given time,
// newest first.
func (s *Store) ActiveJobs(ctx context.Context, now time.Time) ([]recommend.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT job_id, title, company, company_type, company_size,
       industry, industry_code, location, job_type,
       experience, education, salary, keyword_code, url,
       posting_ts, expiration_ts
FROM jobs
WHERE expiration_ts = 0 OR expiration_ts > ?
ORDER BY posting_ts DESC, job_id;
`, now.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []recommend.JobPosting
	for rows.Next() {
		var j recommend.JobPosting
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.CompanyType, &j.CompanySize,
			&j.Industry, &j.IndustryCode, &j.Location, &j.JobType,
			&j.Experience, &j.Education, &j.Salary, &j.KeywordCode, &j.URL,
			&j.PostingTS, &j.ExpirationTS,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}
