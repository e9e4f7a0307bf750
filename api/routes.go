package api

import (
	"github.com/gorilla/mux"
)

func SetupRoutes(router *mux.Router, handlers *Handlers) {
	// API version prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Dataset management endpoints
	datasets := api.PathPrefix("/datasets").Subrouter()
	datasets.HandleFunc("", handlers.ListDatasets).Methods("GET")
	datasets.HandleFunc("", handlers.RegisterDataset).Methods("POST")
	datasets.HandleFunc("/{datasetId}", handlers.GetDataset).Methods("GET")

	// Pipeline output endpoints: one per rendering routine
	datasets.HandleFunc("/{datasetId}/records", handlers.GetRecords).Methods("GET")
	datasets.HandleFunc("/{datasetId}/degradation", handlers.GetDegradation).Methods("GET")
	datasets.HandleFunc("/{datasetId}/summaries", handlers.GetSummaries).Methods("GET")

	// Plot-ready series for the rendering front-end
	datasets.HandleFunc("/{datasetId}/series/convergence", handlers.GetConvergenceSeries).Methods("GET")
	datasets.HandleFunc("/{datasetId}/series/degradation", handlers.GetDegradationSeries).Methods("GET")

	// Textual reporting surface
	datasets.HandleFunc("/{datasetId}/report", handlers.GetReport).Methods("GET")

	// Health check endpoint
	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
