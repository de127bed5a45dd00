package filtering

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/recommend"
)

type activeFilter struct {
	now time.Time
}

// NewActive creates a filter that removes postings already expired at the
// given time. Postings without an expiration survive.
func NewActive(now time.Time) Filter {
	return &activeFilter{now: now}
}

func (f *activeFilter) Name() string { return "active" }

func (f *activeFilter) Disable(string) {}

func (f *activeFilter) IsEnabled() bool { return true }

func (f *activeFilter) Validate(*Config) error { return nil }

func (f *activeFilter) Apply(_ context.Context, deps Deps, jobs []recommend.JobPosting) ([]recommend.JobPosting, Step, error) {
	initial := len(jobs)
	kept := jobs[:0:0]
	var expired []string
	for _, job := range jobs {
		if !job.IsActive(f.now) {
			expired = append(expired, job.ID)
			continue
		}
		kept = append(kept, job)
	}

	if deps.Logger != nil && len(expired) > 0 {
		deps.Logger.Info("excluding expired postings",
			zap.Strings("excluded_postings", expired),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(expired), Left: len(kept)}, nil
}

type dedupeFilter struct{}

// NewDedupe creates a filter that removes postings with a repeated job id,
// keeping the first occurrence.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Disable(string) {}

func (f *dedupeFilter) IsEnabled() bool { return true }

func (f *dedupeFilter) Validate(*Config) error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, deps Deps, jobs []recommend.JobPosting) ([]recommend.JobPosting, Step, error) {
	initial := len(jobs)
	seen := make(map[string]struct{}, len(jobs))
	kept := jobs[:0:0]
	dropped := 0
	for _, job := range jobs {
		if _, ok := seen[job.ID]; ok {
			dropped++
			continue
		}
		seen[job.ID] = struct{}{}
		kept = append(kept, job)
	}

	if deps.Logger != nil && dropped > 0 {
		deps.Logger.Info("removed duplicated postings",
			zap.Int("duplicates", dropped),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: dropped, Left: len(kept)}, nil
}

type targetCategoriesFilter struct {
	disabled bool
	reason   string
	keywords []string
}

// NewTargetCategories creates a filter that keeps only postings matching the
// training categories of the program. It can be disabled to rank the full pool.
func NewTargetCategories() Filter {
	return &targetCategoriesFilter{keywords: recommend.TargetKeywords()}
}

func (f *targetCategoriesFilter) Name() string { return "target_categories" }

func (f *targetCategoriesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *targetCategoriesFilter) IsEnabled() bool { return !f.disabled }

func (f *targetCategoriesFilter) Validate(*Config) error { return nil }

func (f *targetCategoriesFilter) Apply(_ context.Context, deps Deps, jobs []recommend.JobPosting) ([]recommend.JobPosting, Step, error) {
	initial := len(jobs)
	kept := jobs[:0:0]
	for _, job := range jobs {
		if f.matches(job) {
			kept = append(kept, job)
		}
	}

	if deps.Logger != nil && len(kept) < initial {
		deps.Logger.Info("excluding postings outside target categories",
			zap.Int("dropped", initial-len(kept)),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *targetCategoriesFilter) matches(job recommend.JobPosting) bool {
	text := strings.ToLower(strings.Join([]string{job.Title, job.Industry, job.KeywordCode}, " "))
	for _, keyword := range f.keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func (f *targetCategoriesFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"keywords": strconv.Itoa(len(f.keywords)),
		},
	}
}

type postingWindowFilter struct {
	now    time.Time
	cutoff time.Time
}

// NewPostingWindow creates a filter that removes postings published before the
// configured window. Postings without a posting timestamp survive.
func NewPostingWindow(now time.Time) Filter {
	return &postingWindowFilter{now: now}
}

func (f *postingWindowFilter) Name() string { return "posting_window" }

func (f *postingWindowFilter) Disable(string) {}

func (f *postingWindowFilter) IsEnabled() bool { return true }

func (f *postingWindowFilter) Validate(cfg *Config) error {
	f.cutoff = time.Time{}
	if cfg != nil && cfg.WindowDays > 0 {
		f.cutoff = f.now.AddDate(0, 0, -cfg.WindowDays)
	}
	return nil
}

func (f *postingWindowFilter) Apply(_ context.Context, deps Deps, jobs []recommend.JobPosting) ([]recommend.JobPosting, Step, error) {
	initial := len(jobs)
	if f.cutoff.IsZero() {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	cutoff := f.cutoff.Unix()
	kept := jobs[:0:0]
	for _, job := range jobs {
		if job.PostingTS != 0 && job.PostingTS < cutoff {
			continue
		}
		kept = append(kept, job)
	}

	if deps.Logger != nil && len(kept) < initial {
		deps.Logger.Info("excluding postings outside the collection window",
			zap.Time("cutoff", f.cutoff),
			zap.Int("dropped", initial-len(kept)),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *postingWindowFilter) Status() Status {
	details := map[string]string{}
	if !f.cutoff.IsZero() {
		details["cutoff"] = f.cutoff.Format(time.DateOnly)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeCompaniesFilter struct {
	companies []string
}

// NewExcludeCompanies creates a filter that removes postings by companies
// configured in the config.
func NewExcludeCompanies() Filter {
	return &excludeCompaniesFilter{}
}

func (f *excludeCompaniesFilter) Name() string { return "exclude_companies" }

func (f *excludeCompaniesFilter) Disable(string) {}

func (f *excludeCompaniesFilter) IsEnabled() bool { return true }

func (f *excludeCompaniesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg != nil {
		f.companies = append(f.companies, cfg.ExcludeCompanies...)
	}
	return nil
}

func (f *excludeCompaniesFilter) Apply(_ context.Context, deps Deps, jobs []recommend.JobPosting) ([]recommend.JobPosting, Step, error) {
	initial := len(jobs)
	if len(f.companies) == 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	blocked := make(map[string]struct{}, len(f.companies))
	for _, company := range f.companies {
		blocked[strings.TrimSpace(company)] = struct{}{}
	}

	kept := jobs[:0:0]
	var excluded []string
	for _, job := range jobs {
		if _, ok := blocked[strings.TrimSpace(job.Company)]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *excludeCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
