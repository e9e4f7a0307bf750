package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFieldValueProjection(t *testing.T) {
	r := ExperimentRecord{
		Algorithm:    AlgorithmPushSum,
		Topology:     TopologyImperfect3D,
		FailureModel: FailureConnection,
		FailureRate:  0.25,
		NetworkSize:  100,
		Metric:       1234.5,
	}

	tests := []struct {
		field Field
		want  string
	}{
		{FieldAlgorithm, "push-sum"},
		{FieldTopology, "imperfect3d"},
		{FieldFailureModel, "connection"},
		{FieldFailureRate, "0.25"},
		{FieldNetworkSize, "100"},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			if got := r.FieldValue(tt.field); got != tt.want {
				t.Errorf("FieldValue(%s) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestParseField(t *testing.T) {
	if _, err := ParseField("topology"); err != nil {
		t.Errorf("Expected topology to parse, got: %v", err)
	}
	if _, err := ParseField("color"); err == nil {
		t.Error("Expected unknown field to fail")
	}
}

func TestGroupKeyString(t *testing.T) {
	key := GroupKey{"gossip", "full", "0.1"}
	if key.String() != "gossip|full|0.1" {
		t.Errorf("Unexpected key string: %s", key.String())
	}
}

func TestErrorMessagesCarryContext(t *testing.T) {
	malformed := MalformedRecordError{Row: 7, Column: "failure_rate", Value: "abc", Reason: "failure rate is not numeric"}
	if msg := malformed.Error(); !strings.Contains(msg, "row 7") || !strings.Contains(msg, "failure_rate") {
		t.Errorf("Malformed error lacks context: %s", msg)
	}

	notFound := BaselineNotFoundError{Key: BaselineKey{Algorithm: AlgorithmPushSum, Topology: Topology3D}}
	if msg := notFound.Error(); !strings.Contains(msg, "push-sum/3d") {
		t.Errorf("Not-found error lacks key: %s", msg)
	}

	degenerate := DegenerateBaselineError{Key: BaselineKey{Topology: TopologyLine}, Baseline: 0}
	if msg := degenerate.Error(); !strings.Contains(msg, "line") || !strings.Contains(msg, "0") {
		t.Errorf("Degenerate error lacks context: %s", msg)
	}
}

func TestGroupSummaryMeanSerialization(t *testing.T) {
	// Absent mean must serialize as absent, never as zero.
	noMean := GroupSummary{Key: GroupKey{"line"}, Count: 2}
	data, err := json.Marshal(noMean)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(string(data), "mean_converged_metric") {
		t.Errorf("Absent mean leaked into JSON: %s", data)
	}

	v := 0.0
	zeroMean := GroupSummary{Key: GroupKey{"full"}, Count: 1, ConvergedCount: 1, SuccessRatePct: 100, MeanConvergedMetric: &v}
	data, err = json.Marshal(zeroMean)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(string(data), "mean_converged_metric") {
		t.Errorf("Zero mean should still serialize: %s", data)
	}
}
