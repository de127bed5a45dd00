// Package export renders a recommendation run as a CSV report for the
// program's career counselors.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

// csvHeader is the fixed column set of the report.
var csvHeader = []string{
	"student_id",
	"student_name",
	"recommendation_rank",
	"recommended_title",
	"recommended_company",
	"recommended_industry",
	"recommended_location",
	"recommended_job_type",
	"recommended_job_id",
	"recommended_url",
	"semantic_similarity",
	"course_industry_score",
	"location_score",
	"diversity_score",
	"freshness_score",
	"final_score",
}

// WriteCSV writes the recommendations to w in their given order. The output
// starts with a UTF-8 BOM so spreadsheet applications render Korean text
// correctly.
func WriteCSV(w io.Writer, recs []recommend.Recommendation) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range recs {
		row := []string{
			rec.TraineeID,
			rec.TraineeName,
			strconv.Itoa(rec.Rank),
			rec.JobTitle,
			rec.Company,
			rec.Industry,
			rec.Location,
			rec.JobType,
			rec.JobID,
			rec.JobURL,
			formatScore(rec.Scores.Semantic),
			formatScore(rec.Scores.CourseIndustry),
			formatScore(rec.Scores.Location),
			formatScore(rec.Scores.Diversity),
			formatScore(rec.Scores.Freshness),
			formatScore(rec.Scores.Final),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
