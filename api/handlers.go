package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/gossipnet/convergence-analysis-service/pkg/dataset"
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
	"github.com/gossipnet/convergence-analysis-service/pkg/report"
	"github.com/gossipnet/convergence-analysis-service/service"
	"github.com/gossipnet/convergence-analysis-service/utils"
)

// Handlers contains HTTP request handlers
type Handlers struct {
	analysisService *service.AnalysisService
}

// NewHandlers creates new API handlers
func NewHandlers(analysisService *service.AnalysisService) *Handlers {
	return &Handlers{analysisService: analysisService}
}

// RegisterDatasetRequest is the POST /datasets body.
type RegisterDatasetRequest struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Schema string `json:"schema"`
	// MetricColumn overrides the preset's metric column for datasets that
	// renamed it.
	MetricColumn string `json:"metric_column,omitempty"`
}

// RegisterDataset loads a CSV file and runs the analysis pipeline over it.
func (h *Handlers) RegisterDataset(w http.ResponseWriter, r *http.Request) {
	var req RegisterDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Path == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing dataset path", nil)
		return
	}
	if req.Name == "" {
		req.Name = "Unnamed Dataset"
	}

	schema, ok := dataset.SchemaByName(req.Schema)
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Unknown schema: "+req.Schema, nil)
		return
	}
	if req.MetricColumn != "" {
		schema.MetricColumn = req.MetricColumn
	}

	ds, err := h.analysisService.Register(req.Name, req.Path, schema)
	if err != nil {
		var malformed models.MalformedRecordError
		if errors.As(err, &malformed) {
			utils.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Dataset failed validation", err)
			return
		}
		log.Error().Err(err).Msg("Dataset registration failed")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Dataset registration failed", err)
		return
	}

	utils.WriteSuccessResponse(w, "Dataset registered successfully", ds)
}

// ListDatasets lists all registered datasets
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, "Datasets retrieved successfully", h.analysisService.List())
}

// GetDataset retrieves a specific dataset with its pipeline outputs
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.analysisService.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	utils.WriteSuccessResponse(w, "Dataset retrieved successfully", ds)
}

// GetRecords returns the classified record sequence.
func (h *Handlers) GetRecords(w http.ResponseWriter, r *http.Request) {
	ds, err := h.analysisService.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	utils.WriteSuccessResponse(w, "Labeled records retrieved", ds.Result.Labeled)
}

// GetDegradation returns the degradation result sequence.
func (h *Handlers) GetDegradation(w http.ResponseWriter, r *http.Request) {
	ds, err := h.analysisService.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	if ds.Result.DegradationErr != "" {
		utils.WriteErrorResponse(w, http.StatusConflict, "Degradation unavailable: "+ds.Result.DegradationErr, nil)
		return
	}
	utils.WriteSuccessResponse(w, "Degradation results retrieved", ds.Result.Degradations)
}

// GetSummaries aggregates the dataset by the groupBy query parameter, e.g.
// ?groupBy=algorithm or ?groupBy=topology,failure_model. Defaults to the
// per-algorithm view.
func (h *Handlers) GetSummaries(w http.ResponseWriter, r *http.Request) {
	datasetID := mux.Vars(r)["datasetId"]

	groupBy := r.URL.Query().Get("groupBy")
	if groupBy == "" {
		groupBy = string(models.FieldAlgorithm)
	}

	var fields []models.Field
	for _, name := range strings.Split(groupBy, ",") {
		field, err := models.ParseField(strings.TrimSpace(name))
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid groupBy parameter", err)
			return
		}
		fields = append(fields, field)
	}

	summaries, err := h.analysisService.Summaries(datasetID, fields)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	utils.WriteSuccessResponse(w, "Summaries retrieved", summaries)
}

// GetConvergenceSeries returns plot-ready metric-vs-size series.
func (h *Handlers) GetConvergenceSeries(w http.ResponseWriter, r *http.Request) {
	ds, err := h.analysisService.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	series := report.ConvergenceSeries(ds.Result.Labeled, report.DefaultTopologyStyles())
	utils.WriteSuccessResponse(w, "Convergence series retrieved", series)
}

// GetDegradationSeries returns plot-ready degradation-vs-rate series.
func (h *Handlers) GetDegradationSeries(w http.ResponseWriter, r *http.Request) {
	ds, err := h.analysisService.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	series := report.DegradationSeries(ds.Result.Degradations, report.DefaultFailureModelStyles())
	utils.WriteSuccessResponse(w, "Degradation series retrieved", series)
}

// GetReport renders the textual summary.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	text, err := h.analysisService.Report(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, "OK", map[string]interface{}{
		"datasets": len(h.analysisService.List()),
	})
}
