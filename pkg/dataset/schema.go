package dataset

// Schema maps the columns of a tabular source onto ExperimentRecord fields.
// Column names vary across datasets (one uses convergence_time_ms, another
// convergence_time), so the metric column is configuration, never a literal
// in the pipeline.
//
// Optional columns may be empty: rows then get the zero-value defaults
// (failure model "none", failure rate 0, network size 0).
type Schema struct {
	Name string `json:"name"`

	AlgorithmColumn    string `json:"algorithm_column"`
	TopologyColumn     string `json:"topology_column"`
	FailureModelColumn string `json:"failure_model_column,omitempty"`
	FailureRateColumn  string `json:"failure_rate_column,omitempty"`
	NetworkSizeColumn  string `json:"network_size_column,omitempty"`
	MetricColumn       string `json:"metric_column"`

	// MetricUnit labels the convergence metric for reporting ("ms", "rounds").
	MetricUnit string `json:"metric_unit"`
}

// FailureSweepSchema describes the failure-experiment dataset:
// algorithm, topology, failure_model, failure_rate, convergence_time_ms.
func FailureSweepSchema() Schema {
	return Schema{
		Name:               "failure-sweep",
		AlgorithmColumn:    "algorithm",
		TopologyColumn:     "topology",
		FailureModelColumn: "failure_model",
		FailureRateColumn:  "failure_rate",
		MetricColumn:       "convergence_time_ms",
		MetricUnit:         "ms",
	}
}

// SizeSweepSchema describes the network-size sweep dataset:
// algorithm, topology, network_size, convergence_time. It has no failure
// columns; every row is a no-failure trial.
func SizeSweepSchema() Schema {
	return Schema{
		Name:              "size-sweep",
		AlgorithmColumn:   "algorithm",
		TopologyColumn:    "topology",
		NetworkSizeColumn: "network_size",
		MetricColumn:      "convergence_time",
		MetricUnit:        "rounds",
	}
}

// SchemaByName returns a shipped schema preset, or false for unknown names.
func SchemaByName(name string) (Schema, bool) {
	switch name {
	case "failure-sweep":
		return FailureSweepSchema(), true
	case "size-sweep":
		return SizeSweepSchema(), true
	}
	return Schema{}, false
}
