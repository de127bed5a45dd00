package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

func TestWriteCSV(t *testing.T) {
	recs := []recommend.Recommendation{
		{
			TraineeID:   "20240001",
			TraineeName: "김민수",
			Rank:        1,
			JobID:       "50199036",
			JobTitle:    "반도체 공정 엔지니어",
			Company:     "한빛반도체",
			Industry:    "반도체",
			Location:    "경북 구미시",
			JobType:     "정규직",
			JobURL:      "https://www.saramin.co.kr/job/50199036",
			Scores: recommend.ScoreBreakdown{
				Semantic:       0.8944,
				CourseIndustry: 0.8,
				Location:       0.96,
				Diversity:      1,
				Freshness:      0.8,
				Final:          0.8895,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\xEF\xBB\xBF") {
		t.Fatal("expected a UTF-8 BOM prefix")
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\xEF\xBB\xBF"))).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "student_id" || rows[0][len(rows[0])-1] != "final_score" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	row := rows[1]
	want := map[int]string{
		0:  "20240001",
		1:  "김민수",
		2:  "1",
		3:  "반도체 공정 엔지니어",
		10: "0.8944",
		15: "0.8895",
	}
	for i, value := range want {
		if row[i] != value {
			t.Errorf("column %d: got %q, want %q", i, row[i], value)
		}
	}
}

func TestWriteCSVEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only a header, got %d lines", len(lines))
	}
}
