package store

import (
	"context"
	"strings"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

// UpsertTrainees inserts the trainees, replacing any record that shares an id.
// Preferred locations are stored space-joined.
func (s *Store) UpsertTrainees(ctx context.Context, trainees []recommend.Trainee) (int, error) {
	if len(trainees) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO trainees (
  trainee_id, name, course, training_type, course_keywords,
  preferred_locations, desired_job, desired_industry,
  desired_pay, future_plan, survey_text
) VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(trainee_id) DO UPDATE SET
  name = excluded.name,
  course = excluded.course,
  training_type = excluded.training_type,
  course_keywords = excluded.course_keywords,
  preferred_locations = excluded.preferred_locations,
  desired_job = excluded.desired_job,
  desired_industry = excluded.desired_industry,
  desired_pay = excluded.desired_pay,
  future_plan = excluded.future_plan,
  survey_text = excluded.survey_text;
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, t := range trainees {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Name, t.Course, t.TrainingType, t.CourseKeywords,
			strings.Join(t.PreferredLocations, " "), t.DesiredJob, t.DesiredIndustry,
			t.DesiredPay, t.FuturePlan, t.SurveyText,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(trainees), nil
}

// Trainees returns all stored trainees ordered by id.
func (s *Store) Trainees(ctx context.Context) ([]recommend.Trainee, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT trainee_id, name, course, training_type, course_keywords,
       preferred_locations, desired_job, desired_industry,
       desired_pay, future_plan, survey_text
FROM trainees
ORDER BY trainee_id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainees []recommend.Trainee
	for rows.Next() {
		var t recommend.Trainee
		var locations string
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Course, &t.TrainingType, &t.CourseKeywords,
			&locations, &t.DesiredJob, &t.DesiredIndustry,
			&t.DesiredPay, &t.FuturePlan, &t.SurveyText,
		); err != nil {
			return nil, err
		}
		t.PreferredLocations = strings.Fields(locations)
		trainees = append(trainees, t)
	}

	return trainees, rows.Err()
}
