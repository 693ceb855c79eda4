// Package api exposes the pipeline over HTTP. Marshaling and routing live
// here; all processing semantics belong to the pipeline and its
// collaborators.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harvestlabs/farmpulse/internal/alerts"
	"github.com/harvestlabs/farmpulse/internal/pipeline"
	"github.com/harvestlabs/farmpulse/internal/store"
)

type Server struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	alerts   *alerts.Engine
	port     string
}

func NewServer(p *pipeline.Pipeline, st *store.Store, alertEngine *alerts.Engine, port string) *Server {
	return &Server{
		pipeline: p,
		store:    st,
		alerts:   alertEngine,
		port:     port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sensors/data", s.handleSensorData)
	mux.HandleFunc("/api/sensors/batch", s.handleSensorBatch)
	mux.HandleFunc("/api/sensors/predictions/", s.handlePredictions)
	mux.HandleFunc("/api/sensors/anomalies", s.handleAnomalies)
	mux.HandleFunc("/api/alerts", s.handleAlerts)
	mux.HandleFunc("/api/alerts/thresholds", s.handleThresholds)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
