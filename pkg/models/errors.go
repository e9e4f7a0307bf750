package models

import "fmt"

// MalformedRecordError reports an input row that fails schema or type
// validation. It aborts a load: no partial record store is produced.
type MalformedRecordError struct {
	Row    int    `json:"row"` // 1-based data row, 0 for header-level problems
	Column string `json:"column"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e MalformedRecordError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("malformed input: column '%s': %s", e.Column, e.Reason)
	}
	if e.Value != "" {
		return fmt.Sprintf("malformed record at row %d: column '%s': %s (value: %s)", e.Row, e.Column, e.Reason, e.Value)
	}
	return fmt.Sprintf("malformed record at row %d: column '%s': %s", e.Row, e.Column, e.Reason)
}

// BaselineNotFoundError reports a degradation or comparison computation that
// could not locate its no-failure reference record.
type BaselineNotFoundError struct {
	Key BaselineKey `json:"key"`
}

func (e BaselineNotFoundError) Error() string {
	return fmt.Sprintf("no baseline record found for %s", e.Key)
}

// DegenerateBaselineError reports a baseline metric that makes the
// degradation ratio undefined. It is fatal for the single result it belongs
// to, never for the surrounding computation.
type DegenerateBaselineError struct {
	Key      BaselineKey `json:"key"`
	Baseline float64     `json:"baseline"`
}

func (e DegenerateBaselineError) Error() string {
	return fmt.Sprintf("degenerate baseline for %s: metric %g makes degradation undefined", e.Key, e.Baseline)
}
