package service

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gossipnet/convergence-analysis-service/pkg/analysis"
	"github.com/gossipnet/convergence-analysis-service/pkg/dataset"
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
	"github.com/gossipnet/convergence-analysis-service/pkg/report"
)

// Dataset is one registered experiment result table plus its pipeline run.
type Dataset struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Schema    dataset.Schema `json:"schema"`
	CreatedAt time.Time      `json:"created_at"`

	Result *PipelineResult `json:"result,omitempty"`
}

// PipelineResult holds the three outputs exposed to rendering collaborators.
// Each rendering routine consumes exactly one of these.
type PipelineResult struct {
	Labeled      []models.LabeledRecord     `json:"labeled_records"`
	Degradations []models.DegradationResult `json:"degradations,omitempty"`
	Baselines    []models.ExperimentRecord  `json:"baselines,omitempty"`
	ByAlgorithm  []models.GroupSummary      `json:"by_algorithm"`
	ByTopology   []models.GroupSummary      `json:"by_topology"`

	// DegradationErr records a baseline-resolution failure. The degradation
	// computation is independent of classification and aggregation, so those
	// still complete when it fails.
	DegradationErr string `json:"degradation_error,omitempty"`
}

// AnalysisService registers datasets and runs the analysis pipeline over
// them. Everything lives in memory; re-registering a file re-runs the
// pipeline from scratch.
type AnalysisService struct {
	cfg      *analysis.Config
	mutex    sync.RWMutex
	datasets map[string]*Dataset
	records  map[string][]models.ExperimentRecord
}

// NewAnalysisService creates an analysis service around a pipeline config.
func NewAnalysisService(cfg *analysis.Config) *AnalysisService {
	return &AnalysisService{
		cfg:      cfg,
		datasets: make(map[string]*Dataset),
		records:  make(map[string][]models.ExperimentRecord),
	}
}

// Register loads a CSV file under the given schema, runs the pipeline, and
// stores the outputs under a fresh dataset ID.
func (s *AnalysisService) Register(name, path string, schema dataset.Schema) (*Dataset, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	datasetID := uuid.New().String()

	log.Info().
		Str("dataset_id", datasetID).
		Str("name", name).
		Str("schema", schema.Name).
		Msg("Registering dataset")

	store, err := dataset.Load(path, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %q: %w", name, err)
	}

	records := store.Records()
	result := s.runPipeline(datasetID, records)

	ds := &Dataset{
		ID:        datasetID,
		Name:      name,
		Path:      path,
		Schema:    schema,
		CreatedAt: time.Now(),
		Result:    result,
	}
	s.datasets[datasetID] = ds
	s.records[datasetID] = records

	log.Info().
		Str("dataset_id", datasetID).
		Int("records", len(records)).
		Int("degradations", len(result.Degradations)).
		Msg("Dataset registered")

	return ds, nil
}

func (s *AnalysisService) runPipeline(datasetID string, records []models.ExperimentRecord) *PipelineResult {
	cap := s.cfg.ConvergenceCap()

	resolver := analysis.NewBaselineResolver(records)
	result := &PipelineResult{
		Labeled:     analysis.LabelRecords(records, cap),
		Baselines:   resolver.Baselines(),
		ByAlgorithm: analysis.ByAlgorithm(records, cap).Summaries(),
		ByTopology:  analysis.ByTopology(records, cap).Summaries(),
	}

	degradations, err := analysis.ComputeDegradation(records, resolver, s.cfg.BaselineGranularity())
	if err != nil {
		// Degradation is fatal only for itself. Classification and the
		// standing aggregation views above already completed.
		var notFound models.BaselineNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().
				Str("dataset_id", datasetID).
				Str("key", notFound.Key.String()).
				Msg("Degradation skipped: baseline not found")
		}
		result.DegradationErr = err.Error()
		return result
	}
	result.Degradations = degradations
	return result
}

// List returns all registered datasets in no particular order.
func (s *AnalysisService) List() []*Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	return out
}

// Get returns one registered dataset.
func (s *AnalysisService) Get(datasetID string) (*Dataset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ds, exists := s.datasets[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	return ds, nil
}

// Summaries aggregates a registered dataset by an arbitrary field list.
// The two standing views and any ad-hoc grouping all go through the same
// aggregation call.
func (s *AnalysisService) Summaries(datasetID string, fields []models.Field) ([]models.GroupSummary, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records, exists := s.records[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	return analysis.Aggregate(records, s.cfg.ConvergenceCap(), fields).Summaries(), nil
}

// Report renders the textual summary for a registered dataset.
func (s *AnalysisService) Report(datasetID string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ds, exists := s.datasets[datasetID]
	if !exists {
		return "", fmt.Errorf("dataset not found: %s", datasetID)
	}

	var buf bytes.Buffer
	err := report.WriteSummary(&buf, report.Summary{
		Labeled:      ds.Result.Labeled,
		Degradations: ds.Result.Degradations,
		Baselines:    ds.Result.Baselines,
		ByAlgorithm:  ds.Result.ByAlgorithm,
		ByTopology:   ds.Result.ByTopology,
		MetricUnit:   ds.Schema.MetricUnit,
		Cap:          s.cfg.ConvergenceCap(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
