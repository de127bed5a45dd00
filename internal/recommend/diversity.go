package recommend

import "strings"

// DiversityPenalties are the score reductions applied when a job attribute
// was already picked. Global penalties apply across all trainees processed so
// far in the run; per-trainee penalties apply within one trainee's own list
// and are deliberately larger. Both families stack; the combination is policy
// carried over from the original tuning, adjustable here in one place.
type DiversityPenalties struct {
	GlobalCompany   float64
	GlobalLocation  float64
	GlobalIndustry  float64
	TraineeCompany  float64
	TraineeLocation float64
	TraineeIndustry float64
}

// DefaultPenalties is the penalty table used by the engine.
var DefaultPenalties = DiversityPenalties{
	GlobalCompany:   0.3,
	GlobalLocation:  0.2,
	GlobalIndustry:  0.2,
	TraineeCompany:  0.4,
	TraineeLocation: 0.3,
	TraineeIndustry: 0.3,
}

const diversityFloor = 0.1

// DiversityState tracks which companies, locations and industries have been
// recommended so far in one batch run. It is owned by the ranking loop,
// mutated in selection order, and discarded at the end of the run. Construct
// a fresh instance per run; the state is never persisted and never shared
// between runs.
type DiversityState struct {
	penalties DiversityPenalties

	usedCompanies  map[string]struct{}
	usedLocations  map[string]struct{}
	usedIndustries map[string]struct{}

	perTrainee map[string]*traineePicks
}

type traineePicks struct {
	companies  map[string]struct{}
	locations  map[string]struct{}
	industries map[string]struct{}
}

// NewDiversityState returns an empty tracker using the default penalties.
func NewDiversityState() *DiversityState {
	return NewDiversityStateWithPenalties(DefaultPenalties)
}

// NewDiversityStateWithPenalties returns an empty tracker with a custom
// penalty table.
func NewDiversityStateWithPenalties(p DiversityPenalties) *DiversityState {
	return &DiversityState{
		penalties:      p,
		usedCompanies:  make(map[string]struct{}),
		usedLocations:  make(map[string]struct{}),
		usedIndustries: make(map[string]struct{}),
		perTrainee:     make(map[string]*traineePicks),
	}
}

// Score evaluates the diversity score for picking the given job for the given
// trainee against the state as it stands before the pick. The result is in
// [0.1, 1.0]: it starts at 1.0, subtracts global penalties for attributes any
// trainee already received, subtracts per-trainee penalties for attributes
// this trainee already received, and is floored so no job is ever fully
// excluded.
func (s *DiversityState) Score(traineeID string, job JobPosting) float64 {
	score := 1.0

	company := normalizeKey(job.Company)
	location := normalizeKey(job.Location)
	industry := normalizeKey(job.Industry)

	if _, ok := s.usedCompanies[company]; ok && company != "" {
		score -= s.penalties.GlobalCompany
	}
	if _, ok := s.usedLocations[location]; ok && location != "" {
		score -= s.penalties.GlobalLocation
	}
	if _, ok := s.usedIndustries[industry]; ok && industry != "" {
		score -= s.penalties.GlobalIndustry
	}

	if picks, ok := s.perTrainee[traineeID]; ok {
		if _, ok := picks.companies[company]; ok && company != "" {
			score -= s.penalties.TraineeCompany
		}
		if _, ok := picks.locations[location]; ok && location != "" {
			score -= s.penalties.TraineeLocation
		}
		if _, ok := picks.industries[industry]; ok && industry != "" {
			score -= s.penalties.TraineeIndustry
		}
	}

	if score < diversityFloor {
		score = diversityFloor
	}
	return score
}

// Record marks the job's attributes as used, both globally and for the given
// trainee. Must be called once per finalized pick, in selection order.
func (s *DiversityState) Record(traineeID string, job JobPosting) {
	company := normalizeKey(job.Company)
	location := normalizeKey(job.Location)
	industry := normalizeKey(job.Industry)

	if company != "" {
		s.usedCompanies[company] = struct{}{}
	}
	if location != "" {
		s.usedLocations[location] = struct{}{}
	}
	if industry != "" {
		s.usedIndustries[industry] = struct{}{}
	}

	picks, ok := s.perTrainee[traineeID]
	if !ok {
		picks = &traineePicks{
			companies:  make(map[string]struct{}),
			locations:  make(map[string]struct{}),
			industries: make(map[string]struct{}),
		}
		s.perTrainee[traineeID] = picks
	}

	if company != "" {
		picks.companies[company] = struct{}{}
	}
	if location != "" {
		picks.locations[location] = struct{}{}
	}
	if industry != "" {
		picks.industries[industry] = struct{}{}
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
