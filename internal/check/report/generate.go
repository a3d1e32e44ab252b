package report

import (
	"github.com/DjordjeVuckovic/qado-check/internal/check/runner"
)

func Generate(rr *runner.RunResult, meta RunMeta) *Report {
	meta.Workers = rr.Workers
	meta.Duration = rr.Duration()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = rr.Started
	}

	r := &Report{
		Meta:      meta,
		Summary:   rr.Summary(),
		Endpoints: make([]EndpointEntry, 0),
		Checks:    make([]CheckEntry, 0, len(rr.Tasks)),
	}

	for _, es := range rr.EndpointStats() {
		r.Endpoints = append(r.Endpoints, EndpointEntry{
			Name:         es.Endpoint.Name,
			URL:          es.Endpoint.URL,
			Attempts:     es.Attempts,
			Confirmed:    es.Confirmed,
			Rejected:     es.Rejected,
			Inconclusive: es.Inconclusive,
			Timeouts:     es.Timeouts,
			Latency:      es.Latency,
		})
	}

	for _, t := range rr.Tasks {
		entry := CheckEntry{
			QueryID:   t.Record.QueryID,
			Property:  string(t.Record.Property),
			Endpoint:  t.Record.Endpoint,
			Evidence:  t.Probe.Evidence.String(),
			Attempts:  len(t.Probe.Attempts),
			Timestamp: t.Record.Timestamp,
			Duration:  t.Duration,
		}
		if t.WriteErr != nil {
			entry.WriteError = t.WriteErr.Error()
		}
		r.Checks = append(r.Checks, entry)
	}

	return r
}
