package recommend

import (
	"strings"
	"time"
)

// Category couples a training category with the keywords that identify it and
// the increment it contributes to the course-industry score.
type Category struct {
	Name     string
	Weight   float64
	Keywords []string
}

// categories is the fixed course-to-industry keyword table. Order is not
// significant; each category contributes at most once per pair.
var categories = []Category{
	{Name: "반도체", Weight: 0.8, Keywords: []string{"반도체", "웨이퍼", "패키징", "semiconductor", "파운드리"}},
	{Name: "AI", Weight: 0.8, Keywords: []string{"ai", "인공지능", "머신러닝", "딥러닝", "데이터사이언스", "컴퓨터비전", "자연어처리"}},
	{Name: "전기", Weight: 0.75, Keywords: []string{"전기", "전자", "전력", "전기설비", "전기공사", "전기제어"}},
	{Name: "기계", Weight: 0.75, Keywords: []string{"기계", "기계설계", "기계가공", "cad", "cam", "cnc"}},
	{Name: "IoT", Weight: 0.7, Keywords: []string{"iot", "사물인터넷", "임베디드", "펌웨어", "센서"}},
	{Name: "로봇", Weight: 0.7, Keywords: []string{"로봇", "자동화", "plc", "액추에이터"}},
	{Name: "해양", Weight: 0.7, Keywords: []string{"해양", "조선", "선박"}},
	{Name: "IT", Weight: 0.7, Keywords: []string{"소프트웨어", "개발자", "프로그래머", "백엔드", "프론트엔드", "클라우드", "데이터베이스"}},
}

// Categories returns the shared category keyword table. The Saramin collector
// uses the same table to pre-filter postings to the target industries.
func Categories() []Category {
	return categories
}

// TargetKeywords flattens the category table into one keyword list.
func TargetKeywords() []string {
	var keywords []string
	for _, c := range categories {
		keywords = append(keywords, c.Keywords...)
	}
	return keywords
}

// regionWeight pairs a named region with its multiplier. Declaration order is
// significant: only the first region matching the job location applies.
type regionWeight struct {
	name   string
	weight float64
}

var regionWeights = []regionWeight{
	{"구미", 1.2},
	{"대구", 1.1},
	{"경북", 1.1},
	{"경산", 1.05},
	{"서울", 0.9},
	{"경기", 0.9},
	{"인천", 0.9},
}

const (
	locationBase     = 0.5
	locationBonus    = 0.3
	freshnessNeutral = 0.5
)

// courseIndustryScore rewards keyword overlap between the trainee's course
// category and the job's industry and title text. A category counts once when
// its keywords appear on both sides; increments accumulate, clamped to 1.0.
// Missing fields never raise: a pair without any hit scores 0.
func courseIndustryScore(t Trainee, j JobPosting) float64 {
	traineeText := strings.ToLower(t.CourseKeywords + " " + t.Course)
	jobText := strings.ToLower(j.Industry + " " + j.Title)

	if strings.TrimSpace(traineeText) == "" || strings.TrimSpace(jobText) == "" {
		return 0
	}

	score := 0.0
	for _, category := range categories {
		if containsAny(traineeText, category.Keywords) && containsAny(jobText, category.Keywords) {
			score += category.Weight
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// locationScore starts from a neutral base, adds a bonus when a preferred
// location matches the job location, and applies the first matching region
// weight. The result is clamped to 1.0. With no preference and no region hit
// the score is exactly the base.
func locationScore(t Trainee, j JobPosting) float64 {
	score := locationBase

	jobLocation := strings.ToLower(strings.TrimSpace(j.Location))
	if jobLocation != "" {
		for _, preferred := range t.PreferredLocations {
			preferred = strings.ToLower(strings.TrimSpace(preferred))
			if preferred == "" {
				continue
			}
			if strings.Contains(jobLocation, preferred) {
				score += locationBonus
				break
			}
		}

		for _, region := range regionWeights {
			if strings.Contains(jobLocation, strings.ToLower(region.name)) {
				score *= region.weight
				break
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// freshnessScore decays with posting age in banded steps. A missing or
// unparseable timestamp is neutral, not an error.
func freshnessScore(postingTS int64, now time.Time) float64 {
	if postingTS <= 0 {
		return freshnessNeutral
	}

	age := now.Sub(time.Unix(postingTS, 0))
	if age < 0 {
		return freshnessNeutral
	}

	days := age.Hours() / 24
	switch {
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.8
	case days <= 90:
		return 0.6
	default:
		return 0.4
	}
}
