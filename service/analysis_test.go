package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gossipnet/convergence-analysis-service/pkg/analysis"
	"github.com/gossipnet/convergence-analysis-service/pkg/dataset"
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sweepCSV = `algorithm,topology,failure_model,failure_rate,convergence_time_ms
gossip,full,none,0,120
gossip,full,node,0.1,150
gossip,full,node,0.3,200
push-sum,full,none,0,340
push-sum,full,connection,0.2,510
`

func TestRegisterRunsPipeline(t *testing.T) {
	svc := NewAnalysisService(analysis.NewConfig())

	ds, err := svc.Register("failure sweep", writeTempCSV(t, sweepCSV), dataset.FailureSweepSchema())
	require.NoError(t, err)
	require.NotNil(t, ds.Result)
	assert.NotEmpty(t, ds.ID)

	assert.Len(t, ds.Result.Labeled, 5)
	assert.Len(t, ds.Result.Baselines, 2)
	assert.Len(t, ds.Result.Degradations, 3)
	assert.Empty(t, ds.Result.DegradationErr)

	// Degradation for gossip 0.1 against its 120 baseline.
	assert.InDelta(t, 25.0, ds.Result.Degradations[0].DegradationPct, 1e-9)
	// Push-sum compares against its own baseline, not gossip's.
	assert.InDelta(t, 50.0, ds.Result.Degradations[2].DegradationPct, 1e-9)

	require.Len(t, ds.Result.ByAlgorithm, 2)
	assert.Equal(t, models.GroupKey{"gossip"}, ds.Result.ByAlgorithm[0].Key)
	assert.Equal(t, 3, ds.Result.ByAlgorithm[0].Count)

	fetched, err := svc.Get(ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, fetched.ID)
}

func TestRegisterMalformedDatasetFails(t *testing.T) {
	svc := NewAnalysisService(analysis.NewConfig())

	path := writeTempCSV(t, "algorithm,topology\ngossip,full\n")
	_, err := svc.Register("broken", path, dataset.FailureSweepSchema())
	require.Error(t, err)
	assert.Empty(t, svc.List(), "failed loads register nothing")
}

func TestRegisterWithMissingBaselineStillCompletes(t *testing.T) {
	// No no-failure row for push-sum/3d: degradation fails, but the
	// classification and aggregation outputs still come out.
	csv := `algorithm,topology,failure_model,failure_rate,convergence_time_ms
push-sum,3d,node,0.1,400
`
	svc := NewAnalysisService(analysis.NewConfig())

	ds, err := svc.Register("no baseline", writeTempCSV(t, csv), dataset.FailureSweepSchema())
	require.NoError(t, err)

	assert.NotEmpty(t, ds.Result.DegradationErr)
	assert.Nil(t, ds.Result.Degradations)
	assert.Len(t, ds.Result.Labeled, 1)
	assert.Len(t, ds.Result.ByTopology, 1)
}

func TestSummariesArbitraryGrouping(t *testing.T) {
	svc := NewAnalysisService(analysis.NewConfig())

	ds, err := svc.Register("sweep", writeTempCSV(t, sweepCSV), dataset.FailureSweepSchema())
	require.NoError(t, err)

	summaries, err := svc.Summaries(ds.ID, []models.Field{models.FieldFailureModel})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, models.GroupKey{"none"}, summaries[0].Key)
	assert.Equal(t, models.GroupKey{"node"}, summaries[1].Key)
	assert.Equal(t, models.GroupKey{"connection"}, summaries[2].Key)

	total := 0
	for _, g := range summaries {
		total += g.Count
	}
	assert.Equal(t, 5, total)

	_, err = svc.Summaries("nope", []models.Field{models.FieldAlgorithm})
	assert.Error(t, err)
}

func TestReportRendering(t *testing.T) {
	svc := NewAnalysisService(analysis.NewConfig())

	ds, err := svc.Register("sweep", writeTempCSV(t, sweepCSV), dataset.FailureSweepSchema())
	require.NoError(t, err)

	text, err := svc.Report(ds.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "Total records: 5")
	assert.Contains(t, text, "gossip on full: 120 ms")

	_, err = svc.Report("nope")
	assert.Error(t, err)
}

func TestCustomCapFlowsThroughPipeline(t *testing.T) {
	cfg := analysis.NewConfig()
	cfg.Set("pipeline.convergence_cap", 200.0)
	svc := NewAnalysisService(cfg)

	ds, err := svc.Register("sweep", writeTempCSV(t, sweepCSV), dataset.FailureSweepSchema())
	require.NoError(t, err)

	// With cap 200 the 200 and 340 and 510 metrics are non-converged.
	converged := 0
	for _, r := range ds.Result.Labeled {
		if r.Converged {
			converged++
		}
	}
	assert.Equal(t, 2, converged)
}
