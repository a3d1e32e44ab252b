package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/check/classify"
	"github.com/DjordjeVuckovic/qado-check/internal/check/metrics"
	"github.com/DjordjeVuckovic/qado-check/internal/sparql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nonEmpty  = `{"head":{"vars":["s"]},"results":{"bindings":[{"s":{"type":"uri","value":"http://dbpedia.org/resource/Berlin"}}]}}`
	empty     = `{"head":{"vars":["s"]},"results":{"bindings":[]}}`
	askTrue   = `{"head":{},"boolean":true}`
	askFalse  = `{"head":{},"boolean":false}`
	gibberish = `<html>Service Unavailable</html>`
)

type fakeEndpoint struct {
	srv  *httptest.Server
	hits atomic.Int32
}

func (f *fakeEndpoint) URL() string { return f.srv.URL }

// respond answers every request with status and body.
func respond(t *testing.T, status int, body string) *fakeEndpoint {
	t.Helper()
	f := &fakeEndpoint{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		assert.Equal(t, sparql.AcceptJSON, r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// hang never answers until the client gives up.
func hang(t *testing.T) *fakeEndpoint {
	t.Helper()
	f := &fakeEndpoint{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		<-r.Context().Done()
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// unreachable returns a URL nothing listens on.
func unreachable(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func newProber(t *testing.T, timeout time.Duration, urls ...string) *Prober {
	t.Helper()
	names := []string{"a", "b", "c"}
	eps := make([]Endpoint, len(urls))
	for i, u := range urls {
		eps[i] = Endpoint{Name: names[i], URL: u}
	}
	p, err := New(sparql.NewClient(), Config{Endpoints: eps, Timeout: timeout}, nil)
	require.NoError(t, err)
	return p
}

func TestProbe_FirstDefinitiveAnswerWins(t *testing.T) {
	tests := []struct {
		name     string
		bodyA    string
		status   Status
		evidence classify.Evidence
	}{
		{name: "non-empty bindings", bodyA: nonEmpty, status: Success, evidence: classify.NonEmptyBindings},
		{name: "empty bindings", bodyA: empty, status: Failure, evidence: classify.EmptyBindings},
		{name: "ask true", bodyA: askTrue, status: Success, evidence: classify.BooleanTrue},
		{name: "ask false", bodyA: askFalse, status: Failure, evidence: classify.BooleanFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := respond(t, http.StatusOK, tt.bodyA)
			b := respond(t, http.StatusOK, nonEmpty)

			res := newProber(t, time.Second, a.URL(), b.URL()).Probe(context.Background(), "SELECT * { ?s ?p ?o }")

			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.evidence, res.Evidence)
			require.True(t, res.Resolved())
			assert.Equal(t, a.URL(), res.Endpoint.URL)
			assert.Len(t, res.Attempts, 1)
			assert.Equal(t, int32(1), a.hits.Load())
			assert.Zero(t, b.hits.Load(), "later endpoints must not be probed")
		})
	}
}

func TestProbe_AllTransportErrors(t *testing.T) {
	p := newProber(t, time.Second, unreachable(t), unreachable(t))

	res := p.Probe(context.Background(), "ASK {}")

	assert.Equal(t, Failure, res.Status)
	assert.False(t, res.Resolved())
	assert.Nil(t, res.Endpoint)
	require.Len(t, res.Attempts, 2)
	for _, a := range res.Attempts {
		var pe *apperr.ProbeError
		require.ErrorAs(t, a.Err, &pe)
		assert.Equal(t, apperr.ProbeTransport, pe.Kind)
		assert.Equal(t, classify.Inconclusive, a.Verdict)
	}
}

func TestProbe_TimeoutThenEmpty(t *testing.T) {
	a := hang(t)
	b := respond(t, http.StatusOK, empty)

	res := newProber(t, 50*time.Millisecond, a.URL(), b.URL()).Probe(context.Background(), "SELECT * {}")

	assert.Equal(t, Failure, res.Status)
	require.True(t, res.Resolved())
	assert.Equal(t, b.URL(), res.Endpoint.URL)
	require.Len(t, res.Attempts, 2)
	assert.True(t, res.Attempts[0].IsTimeout())
}

func TestProbe_InconclusiveFallsThrough(t *testing.T) {
	t.Run("server error then ask true", func(t *testing.T) {
		a := respond(t, http.StatusInternalServerError, nonEmpty)
		b := respond(t, http.StatusOK, askTrue)

		res := newProber(t, time.Second, a.URL(), b.URL()).Probe(context.Background(), "ASK {}")

		assert.Equal(t, Success, res.Status)
		assert.Equal(t, b.URL(), res.Endpoint.URL)
		assert.Equal(t, int32(1), a.hits.Load())
	})

	t.Run("unparsable then non-empty", func(t *testing.T) {
		a := respond(t, http.StatusOK, gibberish)
		b := respond(t, http.StatusOK, nonEmpty)

		res := newProber(t, time.Second, a.URL(), b.URL()).Probe(context.Background(), "SELECT * {}")

		assert.Equal(t, Success, res.Status)
		assert.Equal(t, "b", res.Endpoint.Name)
		var pe *apperr.ProbeError
		require.ErrorAs(t, res.Attempts[0].Err, &pe)
		assert.Equal(t, apperr.ProbeParse, pe.Kind)
	})

	t.Run("all unparsable", func(t *testing.T) {
		a := respond(t, http.StatusOK, gibberish)
		b := respond(t, http.StatusOK, `{}`)

		res := newProber(t, time.Second, a.URL(), b.URL()).Probe(context.Background(), "SELECT * {}")

		assert.Equal(t, Failure, res.Status)
		assert.Nil(t, res.Endpoint)
		assert.Len(t, res.Attempts, 2)
	})
}

func TestProbe_QueryTextIsEscaped(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(askTrue))
	}))
	defer srv.Close()

	text := "PREFIX dbo: <http://dbpedia.org/ontology/>\nASK { ?x dbo:name \"A&B ?=#%\" }"
	res := newProber(t, time.Second, srv.URL).Probe(context.Background(), text)

	assert.Equal(t, Success, res.Status)
	assert.Equal(t, text, got)
}

func TestProbe_RateLimitWaitHonorsContext(t *testing.T) {
	a := respond(t, http.StatusOK, askTrue)
	p, err := New(sparql.NewClient(), Config{
		Endpoints: []Endpoint{{Name: "a", URL: a.URL()}},
		Timeout:   time.Second,
		RateLimit: 0.001,
	}, nil)
	require.NoError(t, err)

	first := p.Probe(context.Background(), "ASK {}")
	assert.Equal(t, Success, first.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second := p.Probe(ctx, "ASK {}")

	assert.Equal(t, Failure, second.Status)
	assert.Nil(t, second.Endpoint)
	assert.Error(t, second.Attempts[0].Err)
	assert.Equal(t, int32(1), a.hits.Load())
}

func TestProbe_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	a := respond(t, http.StatusOK, gibberish)
	b := respond(t, http.StatusOK, nonEmpty)
	p, err := New(sparql.NewClient(), Config{
		Endpoints: []Endpoint{{Name: "a", URL: a.URL()}, {Name: "b", URL: b.URL()}},
		Timeout:   time.Second,
	}, m)
	require.NoError(t, err)

	p.Probe(context.Background(), "SELECT * {}")

	count, err := testutil.GatherAndCount(reg, "qado_check_probe_requests_total", "qado_check_probe_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count) // a/inconclusive, b/confirmed, a/parse
}

func TestNew_RejectsEmptyEndpoints(t *testing.T) {
	_, err := New(sparql.NewClient(), Config{}, nil)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestNew_DoesNotMutateConfig(t *testing.T) {
	eps := []Endpoint{{URL: "https://dbpedia.org/sparql"}}
	p, err := New(sparql.NewClient(), Config{Endpoints: eps}, nil)
	require.NoError(t, err)

	assert.Empty(t, eps[0].Name)
	assert.Equal(t, "dbpedia.org", p.Endpoints()[0].Name)
	assert.Equal(t, DefaultTimeout, p.timeout)
}
