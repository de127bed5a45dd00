package recommend

import (
	"math"
	"testing"
)

func TestDiversityScoreFreshState(t *testing.T) {
	state := NewDiversityState()
	job := JobPosting{Company: "한빛반도체", Location: "구미", Industry: "반도체"}

	if score := state.Score("t1", job); score != 1.0 {
		t.Fatalf("expected 1.0 on fresh state, got %v", score)
	}
}

func TestDiversityScorePerTraineePenalty(t *testing.T) {
	state := NewDiversityState()
	job := JobPosting{Company: "한빛반도체", Location: "구미", Industry: "반도체"}

	state.Record("t1", job)

	// same trainee, same company/location/industry: both penalty families stack
	got := state.Score("t1", JobPosting{Company: "한빛반도체", Location: "대구", Industry: "사무"})
	expect := 1.0 - 0.3 - 0.4 // global + per-trainee company
	if math.Abs(got-expect) > 1e-9 {
		t.Fatalf("expected %v, got %v", expect, got)
	}

	// a different trainee sees only the global penalty
	got = state.Score("t2", JobPosting{Company: "한빛반도체", Location: "대구", Industry: "사무"})
	expect = 1.0 - 0.3
	if math.Abs(got-expect) > 1e-9 {
		t.Fatalf("expected %v for other trainee, got %v", expect, got)
	}
}

func TestDiversityScoreFloor(t *testing.T) {
	state := NewDiversityState()
	job := JobPosting{Company: "한빛반도체", Location: "구미", Industry: "반도체"}

	state.Record("t1", job)

	// full overlap stacks to 1.0 - (0.3+0.2+0.2) - (0.4+0.3+0.3) < 0.1
	if got := state.Score("t1", job); got != 0.1 {
		t.Fatalf("expected floor 0.1, got %v", got)
	}
}

func TestDiversityScoreRange(t *testing.T) {
	state := NewDiversityState()
	jobs := []JobPosting{
		{Company: "a", Location: "x", Industry: "i"},
		{Company: "b", Location: "x", Industry: "i"},
		{Company: "a", Location: "y", Industry: "j"},
	}

	for _, job := range jobs {
		for _, id := range []string{"t1", "t2"} {
			score := state.Score(id, job)
			if score < 0.1 || score > 1.0 {
				t.Fatalf("score out of [0.1, 1.0]: %v", score)
			}
			state.Record(id, job)
		}
	}
}

func TestDiversityScoreIgnoresEmptyAttributes(t *testing.T) {
	state := NewDiversityState()

	state.Record("t1", JobPosting{})

	// empty company/location/industry must not penalize other empty records
	if got := state.Score("t1", JobPosting{}); got != 1.0 {
		t.Fatalf("expected 1.0 for empty attributes, got %v", got)
	}
}

func TestDiversityStateIsolation(t *testing.T) {
	first := NewDiversityState()
	first.Record("t1", JobPosting{Company: "한빛반도체"})

	// a fresh state for a new run carries nothing over
	second := NewDiversityState()
	if got := second.Score("t1", JobPosting{Company: "한빛반도체"}); got != 1.0 {
		t.Fatalf("expected fresh state to score 1.0, got %v", got)
	}
}
