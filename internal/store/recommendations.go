package store

import (
	"context"
	"time"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

// ReplaceRecommendations clears the previous run and writes the new one in a
// single transaction.
func (s *Store) ReplaceRecommendations(ctx context.Context, recs []recommend.Recommendation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations;`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO recommendations (
  trainee_id, rank, job_id,
  semantic_similarity, course_industry_score, location_score,
  diversity_score, freshness_score, final_score, created_at
) VALUES (?,?,?,?,?,?,?,?,?,?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.TraineeID, rec.Rank, rec.JobID,
			rec.Scores.Semantic, rec.Scores.CourseIndustry, rec.Scores.Location,
			rec.Scores.Diversity, rec.Scores.Freshness, rec.Scores.Final, createdAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Recommendations returns the stored run with job and trainee display fields
// rejoined, ordered by trainee and rank.
func (s *Store) Recommendations(ctx context.Context) ([]recommend.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.trainee_id, COALESCE(t.name, ''), r.rank, r.job_id,
       COALESCE(j.title, ''), COALESCE(j.company, ''), COALESCE(j.industry, ''),
       COALESCE(j.location, ''), COALESCE(j.job_type, ''), COALESCE(j.url, ''),
       r.semantic_similarity, r.course_industry_score, r.location_score,
       r.diversity_score, r.freshness_score, r.final_score
FROM recommendations r
LEFT JOIN trainees t ON t.trainee_id = r.trainee_id
LEFT JOIN jobs j ON j.job_id = r.job_id
ORDER BY r.trainee_id, r.rank;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []recommend.Recommendation
	for rows.Next() {
		var rec recommend.Recommendation
		if err := rows.Scan(
			&rec.TraineeID, &rec.TraineeName, &rec.Rank, &rec.JobID,
			&rec.JobTitle, &rec.Company, &rec.Industry,
			&rec.Location, &rec.JobType, &rec.JobURL,
			&rec.Scores.Semantic, &rec.Scores.CourseIndustry, &rec.Scores.Location,
			&rec.Scores.Diversity, &rec.Scores.Freshness, &rec.Scores.Final,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
