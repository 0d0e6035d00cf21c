package server

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region dto

type queryRequest struct {
	Query               string   `json:"query"`
	ConversationID      string   `json:"conversation_id"`
	AgentPreference     string   `json:"agent_preference"`
	RequireCapabilities []string `json:"require_capabilities"`
	AllowFallback       *bool    `json:"allow_fallback"`
	AllowImprovement    *bool    `json:"allow_improvement"`
	PreviousAgents      []string `json:"previous_agents"`
}

type agentView struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Type         string                `json:"type"`
	Model        string                `json:"model,omitempty"`
	Capabilities []provider.Capability `json:"capabilities"`
	MaxContext   int                   `json:"max_context"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// #endregion

// #region helpers

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, errorType, message string, status int) {
	respondJSON(w, errorResponse{Error: errorType, Message: message}, status)
}

// respondQueryError maps orchestration failures to HTTP statuses. Provider
// details are logged, not echoed.
func (s *Server) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		perr *provider.Error
		serr *orchestrator.ScoringError
	)
	switch {
	case errors.Is(err, orchestrator.ErrEmptyQuery):
		respondError(w, "invalid_request", err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, orchestrator.ErrNoProviderAvailable):
		respondError(w, "no_provider", "No provider is available to answer", http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, "provider_timeout", "The provider did not answer in time", http.StatusGatewayTimeout)
	case errors.As(err, &perr), errors.As(err, &serr):
		respondError(w, "provider_error", "The provider failed to answer", http.StatusBadGateway)
	default:
		respondError(w, "internal_error", "Internal error", http.StatusInternalServerError)
	}
	s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("query failed")
}

// #endregion

// #region handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":    "ok",
		"providers": s.manager.Providers().Len(),
	}, http.StatusOK)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}

	opts := orchestrator.QueryOptions{
		ConversationID:   req.ConversationID,
		AgentPreference:  req.AgentPreference,
		AllowFallback:    req.AllowFallback,
		AllowImprovement: req.AllowImprovement,
		PreviousAgents:   req.PreviousAgents,
	}
	for _, name := range req.RequireCapabilities {
		c, ok := provider.ParseCapability(name)
		if !ok {
			respondError(w, "invalid_request", "Unknown capability: "+name, http.StatusBadRequest)
			return
		}
		opts.RequireCapabilities = append(opts.RequireCapabilities, c)
	}

	res, err := s.manager.ProcessQuery(r.Context(), req.Query, opts)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	respondJSON(w, res, http.StatusOK)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	turns, err := s.manager.GetConversationHistory(id)
	if err != nil {
		s.log.Error().Err(err).Str("conversation", id).Msg("history lookup failed")
		respondError(w, "internal_error", "Internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"conversation_id": id, "turns": turns}, http.StatusOK)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	adapters := s.manager.Providers().List()
	out := make([]agentView, 0, len(adapters))
	for _, a := range adapters {
		cfg := a.Config()
		out = append(out, agentView{
			ID:           cfg.ID,
			Name:         cfg.Name,
			Type:         cfg.Type,
			Model:        cfg.Model,
			Capabilities: cfg.Capabilities,
			MaxContext:   cfg.MaxContext,
		})
	}
	respondJSON(w, map[string]any{"agents": out}, http.StatusOK)
}

func (s *Server) handleAgentMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m := s.manager.GetAgentMetrics(id)
	if m == nil {
		respondError(w, "not_found", "No metrics for agent "+id, http.StatusNotFound)
		return
	}
	respondJSON(w, m, http.StatusOK)
}

// #endregion
