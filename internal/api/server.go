package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bootdw/adapters/stats/autocorr"
	"bootdw/app"
	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
	"bootdw/internal"
	"bootdw/internal/config"
)

// Server exposes the serial-correlation tests over a JSON API
type Server struct {
	router  *chi.Mux
	runner  *autocorr.Runner
	battery *app.BatteryService
	cfg     *config.Config
	logger  *internal.Logger
}

// NewServer creates the API server and mounts its routes
func NewServer(runner *autocorr.Runner, battery *app.BatteryService, cfg *config.Config, logger *internal.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		runner:  runner,
		battery: battery,
		cfg:     cfg,
		logger:  logger,
	}
	s.routes()
	return s
}

// Router returns the mounted handler
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/tests", s.handleRunTest)
		r.Post("/batteries", s.handleRunBattery)
	})
}

// testRequest is the JSON body for a single test invocation
type testRequest struct {
	Response    []float64   `json:"response"`
	Design      [][]float64 `json:"design"`
	Method      string      `json:"method"`
	Alternative string      `json:"alternative"`
	NBootstrap  *int        `json:"n_bootstrap"`
	Seed        *int64      `json:"seed"`
}

// batteryRequest is the JSON body for a battery invocation
type batteryRequest struct {
	testRequest
	DatasetKey string   `json:"dataset_key"`
	Methods    []string `json:"methods"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRunTest(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	method, err := serialcorr.ParseMethod(req.Method)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	alternative, nBootstrap, seed, err := s.testDefaults(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), method, req.Response, req.Design, nBootstrap, alternative, seed)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunBattery(w http.ResponseWriter, r *http.Request) {
	var req batteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	methods := make([]serialcorr.Method, 0, len(req.Methods))
	for _, raw := range req.Methods {
		method, err := serialcorr.ParseMethod(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		methods = append(methods, method)
	}
	alternative, nBootstrap, seed, err := s.testDefaults(req.testRequest)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	battery, err := s.battery.RunBattery(r.Context(), app.BatteryRequest{
		DatasetKey:   core.DatasetKey(req.DatasetKey),
		Response:     req.Response,
		Design:       req.Design,
		Methods:      methods,
		NumBootstrap: nBootstrap,
		Alternative:  alternative,
		Seed:         seed,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, battery)
}

func (s *Server) testDefaults(req testRequest) (serialcorr.Alternative, int, int64, error) {
	alternative := serialcorr.AltTwoSided
	if req.Alternative != "" {
		parsed, err := serialcorr.ParseAlternative(req.Alternative)
		if err != nil {
			return "", 0, 0, err
		}
		alternative = parsed
	}

	nBootstrap := s.cfg.Bootstrap.DefaultReplicates
	if req.NBootstrap != nil {
		nBootstrap = *req.NBootstrap
	}
	seed := s.cfg.Bootstrap.DefaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}
	return alternative, nBootstrap, seed, nil
}

// writeDomainError maps statistical errors to response codes: caller
// misconfiguration is 400, unfit data is 422.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidBootstrapCount(err):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case core.IsSingularDesign(err), core.IsInsufficientData(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("test execution failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
