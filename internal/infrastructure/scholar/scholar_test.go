package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JournalHarvester/internal/domain"
)

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestSemanticPapersPagesUntilEmpty(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		offsets []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, `venue:"Ecology Letters" year:2021`, q.Get("query"))
		assert.Equal(t, "2", q.Get("limit"))
		mu.Lock()
		offsets = append(offsets, q.Get("offset"))
		mu.Unlock()

		offset, _ := strconv.Atoi(q.Get("offset"))
		switch offset {
		case 0:
			writeJSON(w, `{"data":[
				{"title":"A","url":"u1","year":2021,"authors":[{"name":"Ada"},{"name":"Alan"}],"externalIds":{"DOI":"10.1/a"}},
				{"title":"B","url":"u2","authors":[],"externalIds":{"CorpusId":7}}]}`)
		case 2:
			writeJSON(w, `{"data":[{"title":"C","abstract":"text","externalIds":null}]}`)
		default:
			writeJSON(w, `{"data":[]}`)
		}
	}))
	defer server.Close()

	client := NewSemanticClient(SemanticOptions{Endpoint: server.URL, APIKey: "key", Fields: "title", PageSize: 2}, server.Client(), nil, nil)
	records, err := client.Papers(context.Background(), "Ecology Letters", 2021)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"0", "2", "4"}, offsets)
	mu.Unlock()
	require.Len(t, records, 3)
	assert.Equal(t, domain.MetadataRecord{
		Journal: "Ecology Letters", Title: "A", Year: 2021, Authors: "Ada, Alan", DOI: "10.1/a", URL: "u1",
	}, records[0])
	assert.Equal(t, "", records[1].DOI)
	assert.Equal(t, 2021, records[1].Year)
	assert.Equal(t, "text", records[2].Abstract)
}

func TestSemanticPapersStopsOnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			writeJSON(w, `{"data":[{"title":"A"}]}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewSemanticClient(SemanticOptions{Endpoint: server.URL, PageSize: 1}, server.Client(), nil, nil)
	records, err := client.Papers(context.Background(), "J", 2020)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Len(t, records, 1)
}

func TestCrossrefExpectedCount(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/journals/2041-1723/works", r.URL.Path)
		assert.Equal(t, "from-pub-date:2022-01-01,until-pub-date:2022-12-31", r.URL.Query().Get("filter"))
		assert.Equal(t, "0", r.URL.Query().Get("rows"))
		assert.Equal(t, "ops@example.org", r.URL.Query().Get("mailto"))
		writeJSON(w, fmt.Sprintf(`{"status":"ok","message":{"total-results":%d}}`, 6123))
	}))
	defer server.Close()

	client := NewCrossrefClient(CrossrefOptions{Endpoint: server.URL + "/", Mailto: "ops@example.org"}, server.Client(), nil)
	count, err := client.ExpectedCount(context.Background(), "2041-1723", 2022)
	require.NoError(t, err)
	assert.Equal(t, 6123, count)
}

func TestCrossrefFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	count, err := NewCrossrefClient(CrossrefOptions{Endpoint: server.URL}, server.Client(), nil).ExpectedCount(context.Background(), "0000-0000", 2020)
	assert.Error(t, err)
	assert.Zero(t, count)
}
