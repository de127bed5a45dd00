package saramin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestBuildParams(t *testing.T) {
	params := &SearchParams{
		Keywords:    "반도체",
		Fields:      "posting-date,keyword-code",
		Sort:        sortByPostingDate,
		Sourcing:    sourcingDirectHire,
		Count:       50,
		PostedAfter: time.Now(),
	}

	q := buildParams(params)

	want := map[string]string{
		"keywords": "반도체",
		"fields":   "posting-date,keyword-code",
		"sort":     "pd",
		"sr":       "directhire",
		"count":    "50",
	}
	for key, value := range want {
		if got := q.Get(key); got != value {
			t.Errorf("param %s: got %q, want %q", key, got, value)
		}
	}

	if q.Has("PostedAfter") || q.Has("posted-after") {
		t.Error("posted-after must not appear in the query string")
	}
}

func TestBuildParamsSkipsEmpty(t *testing.T) {
	q := buildParams(&SearchParams{Sort: sortByPostingDate})

	if q.Has("keywords") || q.Has("count") {
		t.Errorf("empty fields must be omitted, got %v", q)
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), nil, "test-key")
	client.APIURL = server.URL
	client.Limiter = rate.NewLimiter(rate.Inf, 1)

	return client
}

func searchPage(start int, jobs []*Job) []byte {
	var resp searchResponse
	resp.Jobs.Count = len(jobs)
	resp.Jobs.Start = start
	resp.Jobs.Total = strconv.Itoa(len(jobs))
	resp.Jobs.Job, _ = json.Marshal(jobs)

	body, _ := json.Marshal(resp)
	return body
}

func TestSearchPaginates(t *testing.T) {
	now := time.Now()
	pages := [][]*Job{
		{
			{ID: "1", PostingTimestamp: strconv.FormatInt(now.Unix(), 10)},
			{ID: "2", PostingTimestamp: strconv.FormatInt(now.Unix(), 10)},
		},
		{
			// repeated across page boundaries, must be de-duplicated
			{ID: "2", PostingTimestamp: strconv.FormatInt(now.Unix(), 10)},
			{ID: "3", PostingTimestamp: strconv.FormatInt(now.Unix(), 10)},
		},
		{},
	}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if key := r.URL.Query().Get("access-key"); key != "test-key" {
			t.Errorf("missing access key, got %q", key)
		}

		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		if start >= len(pages) {
			t.Errorf("unexpected page request: %d", start)
			start = len(pages) - 1
		}
		w.Write(searchPage(start, pages[start]))
	})

	jobs, err := client.Search(DefaultSearchParams(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if jobs.Len() != 3 {
		t.Fatalf("expected 3 unique jobs, got %d", jobs.Len())
	}
	for _, id := range []string{"1", "2", "3"} {
		if jobs.FindByID(id) == nil {
			t.Errorf("missing job %s", id)
		}
	}
}

func TestSearchStopsAtWindowCutoff(t *testing.T) {
	now := time.Now()
	requests := 0

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(searchPage(0, []*Job{
			{ID: "fresh", PostingTimestamp: strconv.FormatInt(now.Unix(), 10)},
			{ID: "stale", PostingTimestamp: strconv.FormatInt(now.AddDate(0, 0, -30).Unix(), 10)},
		}))
	})

	jobs, err := client.Search(DefaultSearchParams(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 1 {
		t.Fatalf("expected pagination to stop after 1 page, got %d", requests)
	}
	if jobs.Len() != 1 || jobs.FindByID("fresh") == nil {
		t.Fatalf("expected only the fresh job, got %d jobs", jobs.Len())
	}
}

func TestSearchBadStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	if _, err := client.Search(nil); err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
}
