package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

const failureSweepCSV = `algorithm,topology,failure_model,failure_rate,convergence_time_ms
gossip,full,none,0,120
gossip,full,node,0.1,150
gossip,full,node,0.3,200
push-sum,line,connection,0.2,50000
`

const sizeSweepCSV = `algorithm,topology,network_size,convergence_time
gossip,full,10,4
gossip,full,100,7
push-sum,line,100,50000
`

func TestLoadFailureSweep(t *testing.T) {
	store, err := LoadFrom(strings.NewReader(failureSweepCSV), FailureSweepSchema())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if store.Len() != 4 {
		t.Fatalf("Expected 4 records, got %d", store.Len())
	}

	records := store.Records()
	first := records[0]
	if first.Algorithm != models.AlgorithmGossip || first.Topology != models.TopologyFull {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.FailureModel != models.FailureNone || first.Metric != 120 {
		t.Errorf("Unexpected first record values: %+v", first)
	}

	// Input row order is preserved, no filtering.
	if records[3].FailureModel != models.FailureConnection || records[3].Metric != 50000 {
		t.Errorf("Row order not preserved: %+v", records[3])
	}
}

func TestLoadSizeSweep(t *testing.T) {
	store, err := LoadFrom(strings.NewReader(sizeSweepCSV), SizeSweepSchema())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	records := store.Records()
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	// No failure columns: every row defaults to the no-failure model.
	for i, r := range records {
		if r.FailureModel != models.FailureNone || r.FailureRate != 0 {
			t.Errorf("Record %d should default to no-failure: %+v", i, r)
		}
	}
	if records[1].NetworkSize != 100 || records[1].Metric != 7 {
		t.Errorf("Unexpected record: %+v", records[1])
	}
}

func TestLoadRecordsReturnsCopy(t *testing.T) {
	store, err := LoadFrom(strings.NewReader(failureSweepCSV), FailureSweepSchema())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	records := store.Records()
	records[0].Metric = -1

	if store.Records()[0].Metric != 120 {
		t.Error("Store records were mutated through the returned slice")
	}
}

func TestLoadMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		schema Schema
		column string
		row    int
	}{
		{
			name:   "missing metric column",
			csv:    "algorithm,topology,failure_model,failure_rate\ngossip,full,none,0\n",
			schema: FailureSweepSchema(),
			column: "convergence_time_ms",
			row:    0,
		},
		{
			name:   "non-numeric failure rate",
			csv:    "algorithm,topology,failure_model,failure_rate,convergence_time_ms\ngossip,full,node,abc,100\n",
			schema: FailureSweepSchema(),
			column: "failure_rate",
			row:    1,
		},
		{
			name:   "failure rate out of range",
			csv:    "algorithm,topology,failure_model,failure_rate,convergence_time_ms\ngossip,full,node,1.5,100\n",
			schema: FailureSweepSchema(),
			column: "failure_rate",
			row:    1,
		},
		{
			name:   "nonzero rate with no-failure model",
			csv:    "algorithm,topology,failure_model,failure_rate,convergence_time_ms\ngossip,full,none,0.2,100\n",
			schema: FailureSweepSchema(),
			column: "failure_rate",
			row:    1,
		},
		{
			name:   "negative metric",
			csv:    "algorithm,topology,failure_model,failure_rate,convergence_time_ms\ngossip,full,none,0,-5\n",
			schema: FailureSweepSchema(),
			column: "convergence_time_ms",
			row:    1,
		},
		{
			name:   "non-positive network size",
			csv:    "algorithm,topology,network_size,convergence_time\ngossip,full,0,10\n",
			schema: SizeSweepSchema(),
			column: "network_size",
			row:    1,
		},
		{
			name:   "empty algorithm on second row",
			csv:    "algorithm,topology,failure_model,failure_rate,convergence_time_ms\ngossip,full,none,0,120\n,full,none,0,100\n",
			schema: FailureSweepSchema(),
			column: "algorithm",
			row:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := LoadFrom(strings.NewReader(tt.csv), tt.schema)
			if err == nil {
				t.Fatal("Expected MalformedRecordError, got nil")
			}
			if store != nil {
				t.Error("Expected no partial store on failure")
			}

			var malformed models.MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedRecordError, got %T: %v", err, err)
			}
			if malformed.Column != tt.column {
				t.Errorf("Expected column %q, got %q", tt.column, malformed.Column)
			}
			if malformed.Row != tt.row {
				t.Errorf("Expected row %d, got %d", tt.row, malformed.Row)
			}
		})
	}
}

func TestSchemaByName(t *testing.T) {
	if _, ok := SchemaByName("failure-sweep"); !ok {
		t.Error("failure-sweep preset missing")
	}
	if _, ok := SchemaByName("size-sweep"); !ok {
		t.Error("size-sweep preset missing")
	}
	if _, ok := SchemaByName("bogus"); ok {
		t.Error("Unknown schema should not resolve")
	}
}

func TestLoadCustomMetricColumn(t *testing.T) {
	// The metric column name is configuration, not a literal.
	schema := FailureSweepSchema()
	schema.MetricColumn = "rounds_to_converge"

	csv := "algorithm,topology,failure_model,failure_rate,rounds_to_converge\ngossip,full,none,0,42\n"
	store, err := LoadFrom(strings.NewReader(csv), schema)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if store.Records()[0].Metric != 42 {
		t.Errorf("Expected metric 42, got %g", store.Records()[0].Metric)
	}
}
