package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/teamgen/core/metrics"
)

func TestPromSink_RecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordGeneration(coremetrics.GenerationRecord{Players: 10, Delta: 0.5, Outcome: "accepted"}))
	require.NoError(t, sink.RecordGeneration(coremetrics.GenerationRecord{Players: 9, Outcome: "unsatisfiable"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.generations.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.generations.WithLabelValues("unsatisfiable")))
	assert.Equal(t, 9.0, testutil.ToFloat64(sink.players))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "team_generation_rating_delta" {
			assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}

func TestPromSink_RecordRosterImport(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRosterImport(coremetrics.RosterImport{Source: "https://docs.google.com/spreadsheets/d/x/edit#gid=0", Skipped: 2}))
	require.NoError(t, sink.RecordRosterImport(coremetrics.RosterImport{Source: "players.csv"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rosters.WithLabelValues("sheet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rosters.WithLabelValues("file")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.skipped))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, second.RecordGeneration(coremetrics.GenerationRecord{Outcome: "cancelled"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.generations.WithLabelValues("cancelled")))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordGeneration(coremetrics.GenerationRecord{Outcome: "accepted"}))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `team_generations_total{outcome="accepted"} 1`)
}

func TestSourceKind(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "unknown"},
		{"https://docs.google.com/spreadsheets/d/abc/edit?gid=0", "sheet"},
		{"http://example.com/roster.csv", "http"},
		{"data/players.csv", "file"},
		{"-", "-"},
		{"request", "request"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sourceKind(c.in), c.in)
	}
}
