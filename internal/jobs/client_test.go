package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-smartapply-bot/internal/models"
)

func TestSearchDecodesListings(t *testing.T) {
	var gotQuery url.Values
	var gotKey, gotHost string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"job_title": "Go Developer", "employer_name": "Acme", "job_apply_link": "https://acme.example/jobs/1", "job_city": "Berlin"},
			{"job_title": "Backend Engineer", "employer_name": "Globex", "job_apply_link": "https://globex.example/2"}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	listings := c.Search(context.Background(), models.JobSearchQuery{
		Query:      "Go Developer",
		DatePosted: models.PostedToday,
		JobType:    "FULLTIME",
		Location:   "Berlin",
	})

	require.Len(t, listings, 2)
	assert.Equal(t, "Go Developer", listings[0].Title)
	assert.Equal(t, "Acme", listings[0].Employer)
	assert.Equal(t, "https://acme.example/jobs/1", listings[0].ApplyLink)

	assert.Equal(t, "Go Developer in Berlin", gotQuery.Get("query"))
	assert.Equal(t, "today", gotQuery.Get("date_posted"))
	assert.Equal(t, "FULLTIME", gotQuery.Get("job_type"))
	assert.Equal(t, "1", gotQuery.Get("num_pages"))
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, apiHost, gotHost)
}

func TestSearchOmitsWorldwideLocation(t *testing.T) {
	q := buildParams(models.JobSearchQuery{Query: "SRE", Location: models.WorldwideLocation})

	assert.Equal(t, "SRE", q.Get("query"))
}

func TestSearchDropsInvalidDateFilter(t *testing.T) {
	q := buildParams(models.JobSearchQuery{Query: "SRE", DatePosted: "fortnight"})

	assert.Empty(t, q.Get("date_posted"))
}

func TestSearchSwallowsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	listings := c.Search(context.Background(), models.JobSearchQuery{Query: "SRE"})

	assert.Empty(t, listings)
}

func TestSearchSwallowsTransportErrors(t *testing.T) {
	//closed server, connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	listings := c.Search(context.Background(), models.JobSearchQuery{Query: "SRE"})

	assert.Empty(t, listings)
}

func TestSearchSwallowsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	listings := c.Search(context.Background(), models.JobSearchQuery{Query: "SRE"})

	assert.Empty(t, listings)
}
