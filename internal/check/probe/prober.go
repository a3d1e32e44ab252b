// Package probe runs a candidate query against the knowledge-graph endpoints
// in precedence order until one gives a definitive answer.
package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/check/classify"
	"github.com/DjordjeVuckovic/qado-check/internal/check/metrics"
	"github.com/DjordjeVuckovic/qado-check/internal/sparql"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 90 * time.Second

// Querier is the HTTP primitive the prober needs. *sparql.Client implements it.
type Querier interface {
	Query(ctx context.Context, endpoint, query, accept string) (*sparql.Response, error)
}

type Config struct {
	Endpoints []Endpoint
	Timeout   time.Duration
	// RateLimit caps requests per second to each endpoint. Zero means unlimited.
	RateLimit float64
}

type Status int

const (
	Failure Status = iota
	Success
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Attempt is one request to one endpoint.
type Attempt struct {
	Endpoint Endpoint
	Verdict  classify.Verdict
	Evidence classify.Evidence
	Latency  time.Duration
	Err      error
}

// Result is the outcome of probing one query. Endpoint is nil when every
// endpoint was inconclusive.
type Result struct {
	Status   Status
	Endpoint *Endpoint
	Evidence classify.Evidence
	Attempts []Attempt
}

func (r Result) Resolved() bool {
	return r.Endpoint != nil
}

type Prober struct {
	querier   Querier
	endpoints []Endpoint
	limiters  []*rate.Limiter
	timeout   time.Duration
	metrics   *metrics.Metrics
}

func New(q Querier, cfg Config, m *metrics.Metrics) (*Prober, error) {
	endpoints := make([]Endpoint, len(cfg.Endpoints))
	copy(endpoints, cfg.Endpoints)
	if err := ValidateEndpoints(endpoints); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	limiters := make([]*rate.Limiter, len(endpoints))
	for i := range limiters {
		limiters[i] = rate.NewLimiter(limit, 1)
	}

	return &Prober{
		querier:   q,
		endpoints: endpoints,
		limiters:  limiters,
		timeout:   cfg.Timeout,
		metrics:   m,
	}, nil
}

func (p *Prober) Endpoints() []Endpoint {
	out := make([]Endpoint, len(p.endpoints))
	copy(out, p.endpoints)
	return out
}

// Probe tries each endpoint in order. The first Confirmed answer yields
// Success, the first Rejected answer yields Failure; both stop probing.
func (p *Prober) Probe(ctx context.Context, queryText string) Result {
	var attempts []Attempt

	for i := range p.endpoints {
		ep := p.endpoints[i]
		a := p.attempt(ctx, i, queryText)
		attempts = append(attempts, a)

		switch a.Verdict {
		case classify.Confirmed:
			return Result{Status: Success, Endpoint: &ep, Evidence: a.Evidence, Attempts: attempts}
		case classify.Rejected:
			return Result{Status: Failure, Endpoint: &ep, Evidence: a.Evidence, Attempts: attempts}
		}
	}

	return Result{Status: Failure, Attempts: attempts}
}

func (p *Prober) attempt(ctx context.Context, i int, queryText string) Attempt {
	ep := p.endpoints[i]
	a := Attempt{Endpoint: ep, Verdict: classify.Inconclusive}

	if err := p.limiters[i].Wait(ctx); err != nil {
		a.Err = apperr.NewProbeTransport(ep.URL, err)
		p.metrics.ProbeError(ep.Name, string(apperr.ProbeTransport))
		return a
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.querier.Query(reqCtx, ep.URL, queryText, sparql.AcceptJSON)
	a.Latency = time.Since(start)
	if err != nil {
		a.Err = apperr.NewProbeTransport(ep.URL, err)
		p.metrics.ProbeError(ep.Name, string(apperr.ProbeTransport))
		p.metrics.ObserveProbe(ep.Name, a.Verdict.String(), a.Latency)
		slog.Debug("Probe request failed", "endpoint", ep.Name, "error", err)
		return a
	}

	out := classify.Classify(resp.Status, resp.Body)
	a.Verdict = out.Verdict
	a.Evidence = out.Evidence
	if out.Err != nil {
		kind := apperr.ProbeParse
		if !resp.OK() {
			kind = apperr.ProbeTransport
		}
		a.Err = &apperr.ProbeError{Endpoint: ep.URL, Kind: kind, Err: out.Err}
		p.metrics.ProbeError(ep.Name, string(kind))
	}
	p.metrics.ObserveProbe(ep.Name, a.Verdict.String(), a.Latency)
	slog.Debug("Probe answered", "endpoint", ep.Name, "status", resp.Status, "verdict", a.Verdict, "evidence", a.Evidence)

	return a
}

// IsTimeout reports whether an attempt failed on its deadline.
func (a Attempt) IsTimeout() bool {
	return errors.Is(a.Err, context.DeadlineExceeded)
}
