package analysis

import (
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// BaselineResolver locates no-failure reference records inside a dataset.
// It scans in input order, so resolution is deterministic for a fixed
// dataset.
//
// Known limitation: when a dataset holds duplicate baseline rows for the
// same key, the first one in input order wins. The source data generator
// emits one no-failure row per (algorithm, topology), so duplicates indicate
// a malformed sweep rather than something worth guessing about, and the
// behavior is documented instead of corrected.
type BaselineResolver struct {
	records []models.ExperimentRecord
}

// NewBaselineResolver builds a resolver over the full record sequence.
func NewBaselineResolver(records []models.ExperimentRecord) *BaselineResolver {
	return &BaselineResolver{records: records}
}

// Resolve returns the first no-failure record matching key. An empty
// key.Algorithm matches any algorithm (per-topology granularity); a zero
// key.NetworkSize matches any size. Zero matches fail with
// BaselineNotFoundError.
func (br *BaselineResolver) Resolve(key models.BaselineKey) (models.ExperimentRecord, error) {
	for _, r := range br.records {
		if r.FailureModel != models.FailureNone {
			continue
		}
		if r.Topology != key.Topology {
			continue
		}
		if key.Algorithm != "" && r.Algorithm != key.Algorithm {
			continue
		}
		if key.NetworkSize > 0 && r.NetworkSize != key.NetworkSize {
			continue
		}
		return r, nil
	}
	return models.ExperimentRecord{}, models.BaselineNotFoundError{Key: key}
}

// ForTopology resolves the per-topology baseline, irrespective of algorithm.
func (br *BaselineResolver) ForTopology(topology models.Topology) (models.ExperimentRecord, error) {
	return br.Resolve(models.BaselineKey{Topology: topology})
}

// ForAlgorithmTopology resolves the algorithm-specific baseline.
func (br *BaselineResolver) ForAlgorithmTopology(algorithm models.Algorithm, topology models.Topology) (models.ExperimentRecord, error) {
	return br.Resolve(models.BaselineKey{Algorithm: algorithm, Topology: topology})
}

// Baselines returns every no-failure record in input order. The report
// surface lists these as the reference measurements.
func (br *BaselineResolver) Baselines() []models.ExperimentRecord {
	var out []models.ExperimentRecord
	for _, r := range br.records {
		if r.FailureModel == models.FailureNone {
			out = append(out, r)
		}
	}
	return out
}
