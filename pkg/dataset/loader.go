package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// Store is an immutable, ordered collection of experiment records. It
// preserves input row order and performs no filtering; every downstream
// stage consumes it without mutating it.
type Store struct {
	schema  Schema
	records []models.ExperimentRecord
}

// Load reads a CSV file into a Store. Any schema or type violation aborts
// the load with a MalformedRecordError; there is no partial result.
func Load(path string, schema Schema) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	store, err := LoadFrom(file, schema)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Str("schema", schema.Name).
		Int("records", store.Len()).
		Msg("Dataset loaded")

	return store, nil
}

// LoadFrom reads CSV rows from r into a Store.
func LoadFrom(r io.Reader, schema Schema) (*Store, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, models.MalformedRecordError{Column: schema.MetricColumn, Reason: "empty input, no header row"}
	}

	cols, err := resolveColumns(rows[0], schema)
	if err != nil {
		return nil, err
	}

	records := make([]models.ExperimentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols, schema, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &Store{schema: schema, records: records}, nil
}

// Records returns the ordered record sequence. The returned slice is a copy:
// callers cannot corrupt the store.
func (s *Store) Records() []models.ExperimentRecord {
	out := make([]models.ExperimentRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) Schema() Schema { return s.schema }

// columnIndexes holds resolved header positions; -1 marks an absent optional.
type columnIndexes struct {
	algorithm    int
	topology     int
	failureModel int
	failureRate  int
	networkSize  int
	metric       int
}

func resolveColumns(header []string, schema Schema) (columnIndexes, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}

	find := func(name string, required bool) (int, error) {
		if name == "" {
			return -1, nil
		}
		idx, ok := positions[name]
		if !ok {
			if required {
				return -1, models.MalformedRecordError{Column: name, Reason: "required column missing from header"}
			}
			return -1, models.MalformedRecordError{Column: name, Reason: "column named in schema missing from header"}
		}
		return idx, nil
	}

	cols := columnIndexes{}
	var err error
	if cols.algorithm, err = find(schema.AlgorithmColumn, true); err != nil {
		return cols, err
	}
	if cols.topology, err = find(schema.TopologyColumn, true); err != nil {
		return cols, err
	}
	if cols.metric, err = find(schema.MetricColumn, true); err != nil {
		return cols, err
	}
	if cols.failureModel, err = find(schema.FailureModelColumn, false); err != nil {
		return cols, err
	}
	if cols.failureRate, err = find(schema.FailureRateColumn, false); err != nil {
		return cols, err
	}
	if cols.networkSize, err = find(schema.NetworkSizeColumn, false); err != nil {
		return cols, err
	}
	return cols, nil
}

func parseRow(row []string, cols columnIndexes, schema Schema, rowNum int) (models.ExperimentRecord, error) {
	var rec models.ExperimentRecord

	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	rec.Algorithm = models.Algorithm(cell(cols.algorithm))
	if rec.Algorithm == "" {
		return rec, models.MalformedRecordError{Row: rowNum, Column: schema.AlgorithmColumn, Reason: "empty algorithm"}
	}
	rec.Topology = models.Topology(cell(cols.topology))
	if rec.Topology == "" {
		return rec, models.MalformedRecordError{Row: rowNum, Column: schema.TopologyColumn, Reason: "empty topology"}
	}

	rec.FailureModel = models.FailureNone
	if cols.failureModel >= 0 {
		rec.FailureModel = models.FailureModel(cell(cols.failureModel))
		if rec.FailureModel == "" {
			rec.FailureModel = models.FailureNone
		}
	}

	if cols.failureRate >= 0 {
		raw := cell(cols.failureRate)
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, models.MalformedRecordError{Row: rowNum, Column: schema.FailureRateColumn, Value: raw, Reason: "failure rate is not numeric"}
		}
		if rate < 0 || rate > 1 {
			return rec, models.MalformedRecordError{Row: rowNum, Column: schema.FailureRateColumn, Value: raw, Reason: "failure rate outside [0,1]"}
		}
		rec.FailureRate = rate
	}
	if rec.FailureModel == models.FailureNone && rec.FailureRate != 0 {
		return rec, models.MalformedRecordError{
			Row:    rowNum,
			Column: schema.FailureRateColumn,
			Value:  cell(cols.failureRate),
			Reason: "failure rate must be 0 when failure model is none",
		}
	}

	if cols.networkSize >= 0 {
		raw := cell(cols.networkSize)
		size, err := strconv.Atoi(raw)
		if err != nil {
			return rec, models.MalformedRecordError{Row: rowNum, Column: schema.NetworkSizeColumn, Value: raw, Reason: "network size is not an integer"}
		}
		if size <= 0 {
			return rec, models.MalformedRecordError{Row: rowNum, Column: schema.NetworkSizeColumn, Value: raw, Reason: "network size must be positive"}
		}
		rec.NetworkSize = size
	}

	rawMetric := cell(cols.metric)
	metric, err := strconv.ParseFloat(rawMetric, 64)
	if err != nil {
		return rec, models.MalformedRecordError{Row: rowNum, Column: schema.MetricColumn, Value: rawMetric, Reason: "convergence metric is not numeric"}
	}
	if metric < 0 {
		return rec, models.MalformedRecordError{Row: rowNum, Column: schema.MetricColumn, Value: rawMetric, Reason: "convergence metric must be >= 0"}
	}
	rec.Metric = metric

	return rec, nil
}
