package runner

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/check/metrics"
	"github.com/DjordjeVuckovic/qado-check/internal/check/probe"
	"github.com/DjordjeVuckovic/qado-check/internal/qado"
	"golang.org/x/sync/errgroup"
)

type Prober interface {
	Probe(ctx context.Context, queryText string) probe.Result
}

// Recorder is the sink for check records. It is called concurrently.
type Recorder interface {
	Record(ctx context.Context, r qado.CheckRecord) error
}

type ProgressFunc func(done, total int)

type Runner struct {
	config     Config
	prober     Prober
	recorder   Recorder
	metrics    *metrics.Metrics
	onProgress ProgressFunc
	now        func() time.Time

	completed atomic.Int64
}

type Option func(*Runner)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.onProgress = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func New(cfg Config, p Prober, rec Recorder, opts ...Option) *Runner {
	r := &Runner{
		config:   cfg,
		prober:   p,
		recorder: rec,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Completed is the number of finished tasks so far.
func (r *Runner) Completed() int {
	return int(r.completed.Load())
}

// Run evaluates every query on a bounded pool and returns once all of them
// have been probed and recorded. Task results keep the input order.
func (r *Runner) Run(ctx context.Context, queries []qado.CandidateQuery) *RunResult {
	workers := r.config.workers()
	rr := &RunResult{
		Workers: workers,
		Started: r.now(),
		Tasks:   make([]TaskResult, len(queries)),
	}
	r.metrics.SetCandidates(len(queries))
	slog.Info("Evaluating candidate queries", "count", len(queries), "workers", workers)

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range queries {
		q := queries[i]
		g.Go(func() error {
			rr.Tasks[i] = r.evaluate(ctx, q)
			done := int(r.completed.Add(1))
			if r.onProgress != nil {
				r.onProgress(done, len(queries))
			}
			return nil
		})
	}
	_ = g.Wait()

	rr.Finished = r.now()
	return rr
}

func (r *Runner) evaluate(ctx context.Context, q qado.CandidateQuery) TaskResult {
	r.metrics.TaskStarted()
	defer r.metrics.TaskDone()

	start := time.Now()
	res := r.prober.Probe(ctx, q.Text)
	for _, a := range res.Attempts {
		if a.Err != nil {
			slog.Warn("Endpoint gave no usable answer", "query", q.ID, "endpoint", a.Endpoint.Name, "error", a.Err)
		}
	}

	rec := NewRecord(q, res, r.now())
	tr := TaskResult{Query: q, Probe: res, Record: rec}

	if err := r.recorder.Record(ctx, rec); err != nil {
		slog.Error("Failed to record check", "query", q.ID, "error", err)
		r.metrics.WriteFailed()
		tr.WriteErr = err
	} else {
		r.metrics.CheckRecorded(string(rec.Property), rec.Endpoint)
	}
	tr.Duration = time.Since(start)

	return tr
}

// NewRecord maps a probe result to the check record written for q.
func NewRecord(q qado.CandidateQuery, res probe.Result, at time.Time) qado.CheckRecord {
	rec := qado.CheckRecord{
		QueryID:   q.ID,
		Property:  qado.Failed,
		Timestamp: at.UTC(),
	}
	if res.Status == probe.Success {
		rec.Property = qado.Succeeded
	}
	if res.Endpoint != nil {
		rec.Endpoint = res.Endpoint.URL
	}
	return rec
}
