package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/embedding"
)

// Weights is the fixed aggregation vector. The components must sum to 1.0.
type Weights struct {
	Semantic       float64
	CourseIndustry float64
	Location       float64
	Diversity      float64
	Freshness      float64
}

// DefaultWeights is the tuned production weight vector.
var DefaultWeights = Weights{
	Semantic:       0.35,
	CourseIndustry: 0.25,
	Location:       0.20,
	Diversity:      0.15,
	Freshness:      0.05,
}

const defaultTopK = 5

// Engine turns a batch of trainees and a pool of active job postings into
// ranked, diversity-aware recommendations.
type Engine struct {
	embedder  embedding.Embedder
	logger    *zap.Logger
	topK      int
	weights   Weights
	penalties DiversityPenalties
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopK overrides how many recommendations each trainee receives.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithPenalties overrides the diversity penalty table.
func WithPenalties(p DiversityPenalties) Option {
	return func(e *Engine) {
		e.penalties = p
	}
}

// WithNow fixes the clock, used by tests to pin freshness bands.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a ranking engine around the given embedding capability.
func NewEngine(embedder embedding.Embedder, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		embedder:  embedder,
		logger:    logger,
		topK:      defaultTopK,
		weights:   DefaultWeights,
		penalties: DefaultPenalties,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// staticScores are the order-independent components of one (trainee, job)
// pair. Diversity is excluded: it depends on the history of picks.
type staticScores struct {
	semantic       float64
	courseIndustry float64
	location       float64
	freshness      float64
}

type candidate struct {
	jobIdx int
	static staticScores
}

// Rank scores every (trainee, job) pair and selects up to top-K jobs per
// trainee. Selection is greedy and order-dependent: diversity is evaluated
// per rank against the picks made so far, across trainees in input order, so
// re-running on identical input with a fresh state yields identical output.
//
// An empty trainee or job pool is a valid outcome and returns an empty list.
func (e *Engine) Rank(ctx context.Context, trainees []Trainee, jobs []JobPosting) ([]Recommendation, error) {
	if len(trainees) == 0 || len(jobs) == 0 {
		e.logger.Info("nothing to rank",
			zap.Int("trainees", len(trainees)),
			zap.Int("jobs", len(jobs)),
		)
		return []Recommendation{}, nil
	}

	traineeTexts := make([]string, len(trainees))
	for i, t := range trainees {
		traineeTexts[i] = TraineeProfile(t)
	}

	jobTexts := make([]string, len(jobs))
	for i, j := range jobs {
		jobTexts[i] = JobProfile(j)
	}

	similarity, err := embedding.SimilarityMatrix(ctx, e.embedder, e.logger, traineeTexts, jobTexts)
	if err != nil {
		return nil, fmt.Errorf("similarity matrix: %w", err)
	}

	now := e.now()
	state := NewDiversityStateWithPenalties(e.penalties)
	recommendations := make([]Recommendation, 0, len(trainees)*e.topK)

	for i, trainee := range trainees {
		candidates := make([]candidate, 0, len(jobs))
		for j, job := range jobs {
			static := staticScores{
				semantic:       similarity[i][j],
				courseIndustry: courseIndustryScore(trainee, job),
				location:       locationScore(trainee, job),
				freshness:      freshnessScore(job.PostingTS, now),
			}

			if !finite(static.semantic) || !finite(static.courseIndustry) || !finite(static.location) || !finite(static.freshness) {
				e.logger.Warn("skipping pair with non-numeric score",
					zap.String("trainee_id", trainee.ID),
					zap.String("job_id", job.ID),
				)
				continue
			}

			candidates = append(candidates, candidate{jobIdx: j, static: static})
		}

		picks := e.selectTopK(state, trainee, jobs, candidates)
		recommendations = append(recommendations, picks...)
	}

	e.logger.Info("ranking complete",
		zap.Int("trainees", len(trainees)),
		zap.Int("jobs", len(jobs)),
		zap.Int("recommendations", len(recommendations)),
	)

	return recommendations, nil
}

// selectTopK runs the greedy per-rank loop for one trainee. For every rank it
// re-scores all remaining candidates with the diversity state as it stands
// before the pick, takes the best final score, then records the pick. The
// per-rank re-sort is intentional: a single up-front sort would ignore how
// each pick changes the diversity of the next one.
func (e *Engine) selectTopK(state *DiversityState, trainee Trainee, jobs []JobPosting, candidates []candidate) []Recommendation {
	picks := make([]Recommendation, 0, e.topK)

	for rank := 1; rank <= e.topK && len(candidates) > 0; rank++ {
		type scored struct {
			pos   int
			div   float64
			final float64
		}

		scoredCandidates := make([]scored, len(candidates))
		for pos, c := range candidates {
			div := state.Score(trainee.ID, jobs[c.jobIdx])
			final := round4(e.weights.Semantic*c.static.semantic +
				e.weights.CourseIndustry*c.static.courseIndustry +
				e.weights.Location*c.static.location +
				e.weights.Diversity*div +
				e.weights.Freshness*c.static.freshness)
			scoredCandidates[pos] = scored{pos: pos, div: div, final: final}
		}

		// stable: equal finals keep original candidate order
		sort.SliceStable(scoredCandidates, func(a, b int) bool {
			return scoredCandidates[a].final > scoredCandidates[b].final
		})

		best := scoredCandidates[0]
		chosen := candidates[best.pos]
		job := jobs[chosen.jobIdx]

		state.Record(trainee.ID, job)

		picks = append(picks, Recommendation{
			TraineeID:   trainee.ID,
			TraineeName: trainee.Name,
			Rank:        rank,
			JobID:       job.ID,
			JobTitle:    job.Title,
			Company:     job.Company,
			Industry:    job.Industry,
			Location:    job.Location,
			JobType:     job.JobType,
			JobURL:      job.URL,
			Scores: ScoreBreakdown{
				Semantic:       chosen.static.semantic,
				CourseIndustry: chosen.static.courseIndustry,
				Location:       chosen.static.location,
				Diversity:      best.div,
				Freshness:      chosen.static.freshness,
				Final:          best.final,
			},
		})

		candidates = append(candidates[:best.pos], candidates[best.pos+1:]...)
	}

	return picks
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
