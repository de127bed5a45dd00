package saramin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	// Sort by posting date, newest first, so a window cutoff can stop paging.
	sortByPostingDate = "pd"
	// Exclude headhunting and staffing agencies.
	sourcingDirectHire = "directhire"
	// Hard cap on pages per collection run.
	maxPages = 100
)

// SearchParams are the query parameters for the job-search endpoint.
type SearchParams struct {
	Keywords string `yaml:"keywords" saramin:"keywords"`
	Fields   string `yaml:"fields" saramin:"fields"`
	Sort     string `yaml:"sort" saramin:"sort"`
	Sourcing string `yaml:"sourcing" saramin:"sr"`
	Count    int    `yaml:"count" saramin:"count"`

	// PostedAfter bounds the collection window; postings older than this stop
	// the pagination. Not part of the query string.
	PostedAfter time.Time `saramin:"-"`
}

// DefaultSearchParams returns the collection defaults: direct-hire postings
// from the last three weeks, newest first, with the timestamp fields included.
func DefaultSearchParams(now time.Time) *SearchParams {
	return &SearchParams{
		Fields:      "posting-date,expiration-date,keyword-code,count",
		Sort:        sortByPostingDate,
		Sourcing:    sourcingDirectHire,
		Count:       perPage,
		PostedAfter: now.AddDate(0, 0, -21),
	}
}

type searchResponse struct {
	Jobs struct {
		Count int             `json:"count"`
		Start int             `json:"start"`
		Total string          `json:"total"`
		Job   json.RawMessage `json:"job"`
	} `json:"jobs"`
}

// Search pages through the job-search endpoint until the posting window is
// exhausted, the API runs dry, or the page cap is reached. Results are
// de-duplicated by job id across pages.
func (c *Client) Search(params *SearchParams) (*Jobs, error) {
	if params == nil {
		params = DefaultSearchParams(time.Now())
	}
	if params.Count <= 0 {
		params.Count = perPage
	}

	jobs := &Jobs{}
	seen := make(map[string]struct{})
	cutoff := params.PostedAfter.Unix()

	for page := 0; page < maxPages; page++ {
		if err := c.Limiter.Wait(c.ctx); err != nil {
			return nil, err
		}

		q := buildParams(params)
		q.Set("start", strconv.Itoa(page))

		var resp searchResponse
		if err := c.getJSON(searchPath, q, &resp); err != nil {
			return nil, fmt.Errorf("job search page %d: %w", page, err)
		}

		pageJobs, err := decodeJobs(resp.Jobs.Job)
		if err != nil {
			return nil, fmt.Errorf("job search page %d: %w", page, err)
		}

		if len(pageJobs) == 0 {
			c.logger.Debug("no more postings", zap.Int("page", page))
			break
		}

		reachedCutoff := false
		for _, job := range pageJobs {
			if !params.PostedAfter.IsZero() {
				if ts, err := strconv.ParseInt(job.PostingTimestamp, 10, 64); err == nil && ts < cutoff {
					reachedCutoff = true
					break
				}
			}

			if _, ok := seen[job.ID]; ok {
				continue
			}
			seen[job.ID] = struct{}{}
			jobs.Items = append(jobs.Items, job)
		}

		c.logger.Debug("collected page",
			zap.Int("page", page),
			zap.Int("page_jobs", len(pageJobs)),
			zap.Int("total", jobs.Len()),
		)

		if reachedCutoff {
			c.logger.Debug("collection window exhausted", zap.Int("page", page))
			break
		}
	}

	c.logger.Info("job search finished", zap.Int("jobs", jobs.Len()))

	return jobs, nil
}

// decodeJobs handles the API quirk of returning either an object or an array
// for a single-element result.
func decodeJobs(raw json.RawMessage) ([]*Job, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var single map[string]any
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("unexpected job payload: %w", err)
		}
		items = []map[string]any{single}
	}

	var jobs []*Job
	cfg := &mapstructure.DecoderConfig{
		Result:  &jobs,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	return jobs, nil
}

// buildParams converts SearchParams to url.Values using the saramin tag.
func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		key := field.Tag.Get("saramin")
		if key == "" || key == "-" {
			continue
		}

		value := reflect.ValueOf(params).Elem().FieldByIndex(field.Index).Interface()
		text := fmt.Sprintf("%v", value)
		if text != "" && text != "0" {
			q.Set(key, text)
		}
	}

	return q
}
