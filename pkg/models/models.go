package models

import (
	"fmt"
	"strconv"
)

// Algorithm identifies which distributed averaging algorithm produced a trial.
type Algorithm string

const (
	AlgorithmGossip  Algorithm = "gossip"
	AlgorithmPushSum Algorithm = "push-sum"
)

// Topology names the network layout of a trial. The set is open: new
// topologies show up in datasets without code changes, so nothing below
// validates against an exhaustive list.
type Topology string

const (
	TopologyFull        Topology = "full"
	TopologyLine        Topology = "line"
	Topology3D          Topology = "3d"
	TopologyImperfect3D Topology = "imperfect3d"
)

// FailureModel names the failure injection used during a trial.
type FailureModel string

const (
	FailureNone       FailureModel = "none"
	FailureNode       FailureModel = "node"
	FailureConnection FailureModel = "connection"
)

// ExperimentRecord is one simulation trial outcome.
//
// Metric is either a duration in milliseconds or a round count depending on
// the dataset; the unit is carried by the dataset schema and treated uniformly
// within one pipeline run.
type ExperimentRecord struct {
	Algorithm    Algorithm    `json:"algorithm"`
	Topology     Topology     `json:"topology"`
	FailureModel FailureModel `json:"failure_model"`
	FailureRate  float64      `json:"failure_rate"`
	NetworkSize  int          `json:"network_size"`
	Metric       float64      `json:"convergence_metric"`
}

// LabeledRecord is an ExperimentRecord with its convergence classification.
type LabeledRecord struct {
	ExperimentRecord
	Converged bool `json:"converged"`
}

// BaselineKey selects the no-failure reference record for a degradation
// comparison. An empty Algorithm requests the per-topology granularity;
// a zero NetworkSize leaves size out of the match.
type BaselineKey struct {
	Algorithm   Algorithm `json:"algorithm,omitempty"`
	Topology    Topology  `json:"topology"`
	NetworkSize int       `json:"network_size,omitempty"`
}

func (k BaselineKey) String() string {
	s := string(k.Topology)
	if k.Algorithm != "" {
		s = string(k.Algorithm) + "/" + s
	}
	if k.NetworkSize > 0 {
		s += "/n=" + strconv.Itoa(k.NetworkSize)
	}
	return s
}

// DegradationResult is the baseline-relative performance change of one
// failure-model record. Positive DegradationPct means the metric increased
// (worse) relative to baseline.
//
// When the baseline metric makes the ratio undefined the result is marked
// Unavailable and carries the triggering error; DegradationPct is
// meaningless in that case and is never Inf or NaN.
type DegradationResult struct {
	Record         ExperimentRecord `json:"record"`
	FailureModel   FailureModel     `json:"failure_model"`
	FailureRate    float64          `json:"failure_rate"`
	DegradationPct float64          `json:"degradation_pct"`
	Unavailable    bool             `json:"unavailable,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Err            error            `json:"-"`
}

// Field is a categorical projection of an ExperimentRecord, used as a
// grouping dimension by the aggregation engine.
type Field string

const (
	FieldAlgorithm    Field = "algorithm"
	FieldTopology     Field = "topology"
	FieldFailureModel Field = "failure_model"
	FieldFailureRate  Field = "failure_rate"
	FieldNetworkSize  Field = "network_size"
)

// ParseField maps a column-style name to a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldAlgorithm, FieldTopology, FieldFailureModel, FieldFailureRate, FieldNetworkSize:
		return Field(s), nil
	}
	return "", fmt.Errorf("unknown grouping field: %q", s)
}

// FieldValue projects the record onto one categorical dimension as a string.
func (r ExperimentRecord) FieldValue(f Field) string {
	switch f {
	case FieldAlgorithm:
		return string(r.Algorithm)
	case FieldTopology:
		return string(r.Topology)
	case FieldFailureModel:
		return string(r.FailureModel)
	case FieldFailureRate:
		return strconv.FormatFloat(r.FailureRate, 'g', -1, 64)
	case FieldNetworkSize:
		return strconv.Itoa(r.NetworkSize)
	}
	return ""
}

// GroupKey is the ordered tuple of categorical values identifying one group.
type GroupKey []string

func (k GroupKey) String() string {
	s := ""
	for i, v := range k {
		if i > 0 {
			s += "|"
		}
		s += v
	}
	return s
}

// GroupSummary is the per-group aggregate produced by the aggregation engine.
//
// MeanConvergedMetric is computed over converged records only and is nil when
// no record in the group converged. Nil is distinct from a zero mean and must
// stay that way through serialization.
type GroupSummary struct {
	Key                 GroupKey `json:"key"`
	Count               int      `json:"count"`
	ConvergedCount      int      `json:"converged_count"`
	SuccessRatePct      float64  `json:"success_rate_pct"`
	MeanConvergedMetric *float64 `json:"mean_converged_metric,omitempty"`
}
