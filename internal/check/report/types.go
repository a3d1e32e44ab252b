package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/check/runner"
)

type Report struct {
	Meta      RunMeta         `json:"meta"`
	Summary   runner.Summary  `json:"summary"`
	Endpoints []EndpointEntry `json:"endpoints"`
	Checks    []CheckEntry    `json:"checks"`
}

type RunMeta struct {
	RunID       string          `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    time.Duration   `json:"duration"`
	Workers     int             `json:"workers"`
	DryRun      bool            `json:"dry_run"`
	FetchURL    string          `json:"fetch_url"`
	UpdateURL   string          `json:"update_url"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type EndpointEntry struct {
	Name         string              `json:"name"`
	URL          string              `json:"url"`
	Attempts     int                 `json:"attempts"`
	Confirmed    int                 `json:"confirmed"`
	Rejected     int                 `json:"rejected"`
	Inconclusive int                 `json:"inconclusive"`
	Timeouts     int                 `json:"timeouts"`
	Latency      runner.LatencyStats `json:"latency"`
}

// CheckEntry is one written (or attempted) check record.
type CheckEntry struct {
	QueryID    string        `json:"query_id"`
	Property   string        `json:"property"`
	Endpoint   string        `json:"endpoint,omitempty"`
	Evidence   string        `json:"evidence"`
	Attempts   int           `json:"attempts"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	WriteError string        `json:"write_error,omitempty"`
}
