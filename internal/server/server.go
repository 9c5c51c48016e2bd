// Package server is the HTTP transport: one query endpoint plus health
// and metrics. Query answers are always JSON strings; the only error the
// handler reports is the classifier failing, rendered as an agent error
// message in the same shape as a normal answer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"investment-assistant/internal/common/logger"
)

// QueryProcessor answers one query; the error is a classification fault.
type QueryProcessor interface {
	Process(ctx context.Context, query string) (string, error)
}

type queryRequest struct {
	Q string `json:"q"`
}

type queryResponse struct {
	Result string `json:"result"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Server wraps the HTTP listener around the query processor.
type Server struct {
	processor QueryProcessor
	logger    logger.Logger
	httpSrv   *http.Server
}

func New(processor QueryProcessor, port int, log logger.Logger) *Server {
	s := &Server{
		processor: processor,
		logger:    log.With(map[string]interface{}{"component": "http-server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	// pprof registers itself on the default mux via its side-effect import.
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpSrv.Addr,
	})
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler; used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()
	log := s.logger.With(map[string]interface{}{"request_id": requestID})

	var req queryRequest
	if r.Body != nil {
		// A malformed or absent body is treated the same as an empty
		// query, never as a transport error.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	query := strings.TrimSpace(req.Q)
	if query == "" {
		writeResult(w, "Please send a query.")
		return
	}

	log.Info("query received", map[string]interface{}{
		"query_length": len(query),
	})

	answer, err := s.processor.Process(r.Context(), query)
	if err != nil {
		log.WithError(err).Error("query processing failed", nil)
		writeResult(w, "Agent error: "+err.Error())
		return
	}
	writeResult(w, answer)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{Status: "healthy", Service: "investment-assistant"})
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{Result: result})
}
