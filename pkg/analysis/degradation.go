package analysis

import (
	"errors"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// ComputeDegradation produces one DegradationResult per input record whose
// failure model is not "none", in input order. Each record is compared
// against the no-failure baseline selected by the granularity:
// GranularityAlgorithmTopology isolates each algorithm's own baseline,
// GranularityTopology compares against the topology's single reference
// irrespective of algorithm.
//
// A missing baseline is fatal for the whole computation and returns a
// BaselineNotFoundError. A degenerate (zero) baseline is fatal only for that
// record: its result is marked Unavailable with a DegenerateBaselineError
// attached, and the remaining results still come out. Degradation values are
// never Inf or NaN.
func ComputeDegradation(records []models.ExperimentRecord, resolver *BaselineResolver, granularity Granularity) ([]models.DegradationResult, error) {
	var results []models.DegradationResult

	for _, r := range records {
		if r.FailureModel == models.FailureNone {
			continue
		}

		key := models.BaselineKey{Topology: r.Topology}
		if granularity != GranularityTopology {
			key.Algorithm = r.Algorithm
		}
		baseline, err := resolver.Resolve(key)
		if err != nil {
			var notFound models.BaselineNotFoundError
			if errors.As(err, &notFound) {
				return nil, notFound
			}
			return nil, err
		}

		result := models.DegradationResult{
			Record:       r,
			FailureModel: r.FailureModel,
			FailureRate:  r.FailureRate,
		}

		if baseline.Metric == 0 {
			degenerate := models.DegenerateBaselineError{Key: key, Baseline: baseline.Metric}
			result.Unavailable = true
			result.Reason = degenerate.Error()
			result.Err = degenerate
		} else {
			// Positive means the metric increased, i.e. performance got worse.
			result.DegradationPct = (r.Metric - baseline.Metric) / baseline.Metric * 100
		}

		results = append(results, result)
	}

	return results, nil
}
