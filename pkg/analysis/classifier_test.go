package analysis

import (
	"testing"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

func TestClassifyBoundary(t *testing.T) {
	cap := 50000.0

	tests := []struct {
		name      string
		metric    float64
		converged bool
	}{
		{"well below cap", 120, true},
		{"just below cap", 49999.999, true},
		{"exactly at cap is non-converged", 50000, false},
		{"above cap", 50001, false},
		{"zero metric", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.ExperimentRecord{
				Algorithm: models.AlgorithmGossip,
				Topology:  models.TopologyFull,
				Metric:    tt.metric,
			}
			if got := Classify(r, cap); got != tt.converged {
				t.Errorf("Classify(metric=%g, cap=%g) = %t, want %t", tt.metric, cap, got, tt.converged)
			}
		})
	}
}

func TestLabelRecordsPreservesOrder(t *testing.T) {
	records := []models.ExperimentRecord{
		{Algorithm: models.AlgorithmGossip, Topology: models.TopologyFull, Metric: 10},
		{Algorithm: models.AlgorithmPushSum, Topology: models.TopologyLine, Metric: 50000},
		{Algorithm: models.AlgorithmGossip, Topology: models.Topology3D, Metric: 300},
	}

	labeled := LabelRecords(records, 50000)

	if len(labeled) != len(records) {
		t.Fatalf("Expected %d labeled records, got %d", len(records), len(labeled))
	}
	for i, l := range labeled {
		if l.ExperimentRecord != records[i] {
			t.Errorf("Record %d reordered or mutated", i)
		}
	}
	if !labeled[0].Converged || labeled[1].Converged || !labeled[2].Converged {
		t.Errorf("Unexpected classification: %v %v %v", labeled[0].Converged, labeled[1].Converged, labeled[2].Converged)
	}
}
