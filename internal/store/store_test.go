package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestUpsertJobsReplacesByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	jobs := []recommend.JobPosting{
		{ID: "1", Title: "before", ExpirationTS: now.AddDate(0, 0, 7).Unix()},
		{ID: "2", Title: "other", ExpirationTS: now.AddDate(0, 0, 7).Unix()},
	}
	if n, err := s.UpsertJobs(ctx, jobs); err != nil || n != 2 {
		t.Fatalf("upsert jobs: n=%d err=%v", n, err)
	}

	jobs[0].Title = "after"
	if _, err := s.UpsertJobs(ctx, jobs[:1]); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	stored, err := s.ActiveJobs(ctx, now)
	if err != nil {
		t.Fatalf("active jobs: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(stored))
	}

	for _, job := range stored {
		if job.ID == "1" && job.Title != "after" {
			t.Fatalf("expected the replaced title, got %q", job.Title)
		}
	}
}

func TestActiveJobsSkipsExpired(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	jobs := []recommend.JobPosting{
		{ID: "live", ExpirationTS: now.AddDate(0, 0, 7).Unix(), PostingTS: now.Unix()},
		{ID: "expired", ExpirationTS: now.AddDate(0, 0, -7).Unix()},
		{ID: "open-ended"},
	}
	if _, err := s.UpsertJobs(ctx, jobs); err != nil {
		t.Fatalf("upsert jobs: %v", err)
	}

	stored, err := s.ActiveJobs(ctx, now)
	if err != nil {
		t.Fatalf("active jobs: %v", err)
	}

	if len(stored) != 2 {
		t.Fatalf("expected 2 active jobs, got %d", len(stored))
	}
	if stored[0].ID != "live" {
		t.Fatalf("expected newest first, got %s", stored[0].ID)
	}
}

func TestTraineesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	trainees := []recommend.Trainee{
		{
			ID:                 "20240001",
			Name:               "김민수",
			Course:             "반도체 공정",
			CourseKeywords:     "반도체 웨이퍼",
			PreferredLocations: []string{"구미", "대구"},
			DesiredJob:         "공정 엔지니어",
		},
	}
	if n, err := s.UpsertTrainees(ctx, trainees); err != nil || n != 1 {
		t.Fatalf("upsert trainees: n=%d err=%v", n, err)
	}

	stored, err := s.Trainees(ctx)
	if err != nil {
		t.Fatalf("trainees: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 trainee, got %d", len(stored))
	}

	got := stored[0]
	if got.Name != "김민수" || got.Course != "반도체 공정" {
		t.Fatalf("unexpected trainee: %+v", got)
	}
	if len(got.PreferredLocations) != 2 || got.PreferredLocations[0] != "구미" {
		t.Fatalf("unexpected preferred locations: %v", got.PreferredLocations)
	}
}

func TestReplaceRecommendations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertTrainees(ctx, []recommend.Trainee{{ID: "t1", Name: "김민수"}}); err != nil {
		t.Fatalf("upsert trainees: %v", err)
	}
	if _, err := s.UpsertJobs(ctx, []recommend.JobPosting{
		{ID: "j1", Title: "반도체 공정 엔지니어", Company: "한빛반도체"},
	}); err != nil {
		t.Fatalf("upsert jobs: %v", err)
	}

	first := []recommend.Recommendation{
		{TraineeID: "t1", Rank: 1, JobID: "stale", Scores: recommend.ScoreBreakdown{Final: 0.1}},
	}
	if err := s.ReplaceRecommendations(ctx, first); err != nil {
		t.Fatalf("replace recommendations: %v", err)
	}

	second := []recommend.Recommendation{
		{TraineeID: "t1", Rank: 1, JobID: "j1", Scores: recommend.ScoreBreakdown{
			Semantic: 0.9, CourseIndustry: 0.8, Location: 0.96, Diversity: 1, Freshness: 0.8, Final: 0.8895,
		}},
	}
	if err := s.ReplaceRecommendations(ctx, second); err != nil {
		t.Fatalf("replace recommendations again: %v", err)
	}

	stored, err := s.Recommendations(ctx)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected the previous run replaced, got %d rows", len(stored))
	}

	rec := stored[0]
	if rec.JobID != "j1" || rec.TraineeName != "김민수" || rec.JobTitle != "반도체 공정 엔지니어" {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
	if rec.Scores.Final != 0.8895 {
		t.Fatalf("unexpected final score: %v", rec.Scores.Final)
	}
}
