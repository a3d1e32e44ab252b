package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveProbe("dbpedia", "confirmed", 120*time.Millisecond)
	m.ObserveProbe("dbpedia", "confirmed", 80*time.Millisecond)
	m.ProbeError("wikidata", "transport")
	m.CheckRecorded("testedSuccessfullyAt", "https://dbpedia.org/sparql")
	m.CheckRecorded("didNotWorkAt", "")
	m.WriteFailed()
	m.SetCandidates(7)
	m.TaskStarted()
	m.TaskStarted()
	m.TaskDone()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.probesTotal.WithLabelValues("dbpedia", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.probeErrors.WithLabelValues("wikidata", "transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("didNotWorkAt", UnresolvedEndpoint)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writeErrors))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.candidates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksInFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(m.probeDuration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register metrics")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveProbe("a", "b", time.Second)
		m.ProbeError("a", "parse")
		m.CheckRecorded("p", "")
		m.WriteFailed()
		m.SetCandidates(1)
		m.TaskStarted()
		m.TaskDone()
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.SetCandidates(3)

	path := filepath.Join(t.TempDir(), "qado_check.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "qado_check_candidates 3")
}
