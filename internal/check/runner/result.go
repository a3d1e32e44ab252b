package runner

import (
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/check/classify"
	"github.com/DjordjeVuckovic/qado-check/internal/check/probe"
	"github.com/DjordjeVuckovic/qado-check/internal/qado"
)

type TaskResult struct {
	Query    qado.CandidateQuery
	Probe    probe.Result
	Record   qado.CheckRecord
	WriteErr error
	Duration time.Duration
}

type RunResult struct {
	Workers  int
	Started  time.Time
	Finished time.Time
	Tasks    []TaskResult
}

type Summary struct {
	Total       int `json:"total"`
	Succeeded   int `json:"succeeded"`
	Failed      int `json:"failed"`
	Unresolved  int `json:"unresolved"`
	WriteErrors int `json:"write_errors"`
}

func (rr *RunResult) Summary() Summary {
	s := Summary{Total: len(rr.Tasks)}
	for _, t := range rr.Tasks {
		switch {
		case t.Record.Property == qado.Succeeded:
			s.Succeeded++
		case t.Probe.Resolved():
			s.Failed++
		default:
			s.Failed++
			s.Unresolved++
		}
		if t.WriteErr != nil {
			s.WriteErrors++
		}
	}
	return s
}

func (rr *RunResult) Duration() time.Duration {
	return rr.Finished.Sub(rr.Started)
}

// EndpointStats aggregates every attempt made against one endpoint.
type EndpointStats struct {
	Endpoint     probe.Endpoint
	Attempts     int
	Confirmed    int
	Rejected     int
	Inconclusive int
	Timeouts     int
	Latency      LatencyStats
}

// EndpointStats returns per-endpoint statistics in the order endpoints
// were first seen across tasks.
func (rr *RunResult) EndpointStats() []EndpointStats {
	index := make(map[string]int)
	var stats []EndpointStats
	var latencies [][]time.Duration

	for _, t := range rr.Tasks {
		for _, a := range t.Probe.Attempts {
			i, ok := index[a.Endpoint.Name]
			if !ok {
				i = len(stats)
				index[a.Endpoint.Name] = i
				stats = append(stats, EndpointStats{Endpoint: a.Endpoint})
				latencies = append(latencies, nil)
			}

			es := &stats[i]
			es.Attempts++
			switch a.Verdict {
			case classify.Confirmed:
				es.Confirmed++
			case classify.Rejected:
				es.Rejected++
			default:
				es.Inconclusive++
			}
			if a.IsTimeout() {
				es.Timeouts++
			}
			latencies[i] = append(latencies[i], a.Latency)
		}
	}

	for i := range stats {
		stats[i].Latency = ComputeLatencyStats(latencies[i])
	}
	return stats
}
