package ebird

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/birdseye/internal/checklist"
	collyfetcher "github.com/JakeFAU/birdseye/internal/fetcher/colly"
)

const testKey = "test-key"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.WarnLevel)
	client, err := New(Config{APIKey: testKey, BaseURL: server.URL + "/v2/"}, collyfetcher.New(collyfetcher.Config{}), zap.New(core))
	require.NoError(t, err)
	return client, logs
}

type failingFetcher struct {
	err error
}

func (f failingFetcher) Fetch(context.Context, checklist.FetchRequest) (checklist.FetchResponse, error) {
	return checklist.FetchResponse{}, f.err
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{APIKey: testKey}, nil, nil)
	require.Error(t, err)

	_, err = New(Config{APIKey: "  "}, failingFetcher{}, nil)
	require.Error(t, err)

	client, err := New(Config{APIKey: testKey}, failingFetcher{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestTaxonomy(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ref/taxonomy/ebird", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, testKey, r.Header.Get(TokenHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"speciesCode":"grycat","comName":"Gray Catbird","sciName":"Dumetella carolinensis"},
			{"speciesCode":"norcar","comName":"Northern Cardinal"},
			{"speciesCode":"","comName":"Nameless"}
		]`))
	})

	tax, err := client.Taxonomy(context.Background())
	require.NoError(t, err)
	assert.Len(t, tax, 2)
	assert.Equal(t, checklist.TaxonEntry{Name: "Gray Catbird", SciName: "Dumetella carolinensis"}, tax["grycat"])
	assert.Equal(t, checklist.TaxonEntry{Name: "Northern Cardinal"}, tax["norcar"])
}

func TestTaxonomyErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"errors":[]}`, http.StatusUnauthorized},
		{"server error", http.StatusInternalServerError, "", http.StatusInternalServerError},
		{"malformed json", http.StatusOK, `{"not":"a list"`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Taxonomy(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, checklist.ErrUpstream))

			var upstream *checklist.UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, opTaxonomy, upstream.Op)
			assert.Equal(t, tc.wantStatus, upstream.StatusCode)
		})
	}
}

func TestTaxonomyTransportError(t *testing.T) {
	t.Parallel()

	client, err := New(Config{APIKey: testKey}, failingFetcher{err: errors.New("dial tcp: refused")}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Taxonomy(context.Background())
	require.ErrorIs(t, err, checklist.ErrUpstream)
	assert.Contains(t, err.Error(), "dial tcp: refused")
}

func TestChecklist(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/product/checklist/view/S123456", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get(TokenHeader))
		_, _ = w.Write([]byte(`{
			"subId":"S123456",
			"locId":"L99",
			"obsDt":"2026-02-07 14:30",
			"numSpecies":2,
			"obs":[
				{"speciesCode":"grycat","howManyAtleast":3,"howManyAtmost":3,"howManyStr":"3"},
				{"speciesCode":"norcar","howManyStr":"X"}
			]
		}`))
	})

	cl, err := client.Checklist(context.Background(), "S123456")
	require.NoError(t, err)
	assert.Equal(t, "L99", cl.LocID)
	assert.Empty(t, cl.LocName)
	assert.Equal(t, "2026-02-07 14:30", cl.ObsDt)
	require.Len(t, cl.Obs, 2)
	require.NotNil(t, cl.Obs[0].HowManyAtleast)
	assert.Equal(t, 3, *cl.Obs[0].HowManyAtleast)
	assert.Nil(t, cl.Obs[1].HowManyAtleast)
	assert.Nil(t, cl.Obs[1].HowManyAtmost)
}

func TestChecklistNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Checklist(context.Background(), "S1")
	var upstream *checklist.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, opChecklist, upstream.Op)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

func TestHotspotName(t *testing.T) {
	t.Parallel()

	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ref/hotspot/info/L99", r.URL.Path)
		_, _ = w.Write([]byte(`{"locId":"L99","name":"Prospect Park"}`))
	})

	name, ok := client.HotspotName(context.Background(), "L99")
	assert.True(t, ok)
	assert.Equal(t, "Prospect Park", name)
	assert.Zero(t, logs.Len())
}

func TestHotspotNameFailsSoft(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		status   int
		body     string
		wantWarn bool
	}{
		{"not found", http.StatusNotFound, "", true},
		{"malformed", http.StatusOK, "{", true},
		{"blank name", http.StatusOK, `{"locId":"L1","name":"  "}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, logs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			name, ok := client.HotspotName(context.Background(), "L1")
			assert.False(t, ok)
			assert.Empty(t, name)
			assert.Equal(t, tc.wantWarn, logs.Len() > 0)
		})
	}
}

func TestHotspotNameTransportAndEmptyID(t *testing.T) {
	t.Parallel()

	client, err := New(Config{APIKey: testKey}, failingFetcher{err: errors.New("boom")}, zap.NewNop())
	require.NoError(t, err)

	_, ok := client.HotspotName(context.Background(), "L1")
	assert.False(t, ok)

	_, ok = client.HotspotName(context.Background(), "")
	assert.False(t, ok)
}
