package recommend

import "strings"

// profileField is one labeled fragment of a profile string.
type profileField struct {
	label string
	value string
}

// synthesize joins "<label>: <value>" fragments with single spaces, skipping
// fields without a value. Pure; an all-empty record yields the empty string.
func synthesize(fields []profileField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		parts = append(parts, f.label+": "+value)
	}
	return strings.Join(parts, " ")
}

// TraineeProfile builds the embedding input text for a trainee. Field order
// matches the source survey layout and must stay fixed so that embeddings are
// reproducible across runs.
func TraineeProfile(t Trainee) string {
	return synthesize([]profileField{
		{"이름", t.Name},
		{"학번", t.ID},
		{"훈련과정", t.Course},
		{"훈련구분", t.TrainingType},
		{"희망직종", t.DesiredJob},
		{"희망업종", t.DesiredIndustry},
		{"희망지역", strings.Join(t.PreferredLocations, " ")},
		{"희망보수", t.DesiredPay},
		{"장래계획", t.FuturePlan},
	})
}

// JobProfile builds the embedding input text for a job posting.
func JobProfile(j JobPosting) string {
	return synthesize([]profileField{
		{"회사", j.Company},
		{"회사유형", j.CompanyType},
		{"회사규모", j.CompanySize},
		{"직무", j.Title},
		{"산업", j.Industry},
		{"산업코드", j.IndustryCode},
		{"고용형태", j.JobType},
		{"근무지", j.Location},
		{"요구경력", j.Experience},
		{"요구학력", j.Education},
		{"급여", j.Salary},
		{"키워드", j.KeywordCode},
	})
}
