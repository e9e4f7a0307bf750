package analysis

import (
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// Classify reports whether a trial converged within the configured cap.
// The boundary is strict: a metric exactly equal to the cap did NOT converge.
// That record hit the measurement ceiling, and downstream it renders with the
// dashed/hollow treatment and stays out of mean calculations.
func Classify(r models.ExperimentRecord, cap float64) bool {
	return r.Metric < cap
}

// LabelRecords classifies every record against the cap, preserving order.
func LabelRecords(records []models.ExperimentRecord, cap float64) []models.LabeledRecord {
	labeled := make([]models.LabeledRecord, len(records))
	for i, r := range records {
		labeled[i] = models.LabeledRecord{
			ExperimentRecord: r,
			Converged:        Classify(r, cap),
		}
	}
	return labeled
}
