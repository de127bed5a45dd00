package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSurvey(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trainees.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing survey file: %v", err)
	}
	return path
}

func TestReadTraineesCSV(t *testing.T) {
	path := writeSurvey(t, "\ufeffstudent_id,name,course,preferred_locations,desired_job\n"+
		"20240001,김민수,반도체 공정,구미 대구,공정 엔지니어\n"+
		"20240002,이서연,AI 응용,,데이터 분석가\n")

	trainees, err := readTraineesCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trainees) != 2 {
		t.Fatalf("expected 2 trainees, got %d", len(trainees))
	}

	first := trainees[0]
	if first.ID != "20240001" || first.Name != "김민수" || first.Course != "반도체 공정" {
		t.Fatalf("unexpected trainee: %+v", first)
	}
	if len(first.PreferredLocations) != 2 || first.PreferredLocations[0] != "구미" {
		t.Fatalf("unexpected preferred locations: %v", first.PreferredLocations)
	}

	if len(trainees[1].PreferredLocations) != 0 {
		t.Fatalf("expected no preferred locations, got %v", trainees[1].PreferredLocations)
	}
}

func TestReadTraineesCSVSkipsBlankIDs(t *testing.T) {
	path := writeSurvey(t, "student_id,name\n,무적\n20240003,박지훈\n")

	trainees, err := readTraineesCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trainees) != 1 || trainees[0].ID != "20240003" {
		t.Fatalf("expected only the row with an id, got %+v", trainees)
	}
}

func TestReadTraineesCSVMissingIDColumn(t *testing.T) {
	path := writeSurvey(t, "name,course\n김민수,반도체 공정\n")

	if _, err := readTraineesCSV(path); err == nil {
		t.Fatal("expected an error for a survey without student_id")
	}
}
