package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/attache-ai/attache/ai/core/llm"
	"github.com/attache-ai/attache/ai/routing"
	"github.com/attache-ai/attache/internal/version"
)

const maxMessageLength = 4096

type routeRequest struct {
	Message string        `json:"message"`
	History []chatMessage `json:"history,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type feedbackRequest struct {
	DecisionID    string `json:"decision_id"`
	SelectedAgent string `json:"selected_agent"`
	CorrectAgent  string `json:"correct_agent,omitempty"`
	Type          string `json:"type"`
}

type agentInfo struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
}

type statsResponse struct {
	Feedback    *routing.RouterStats `json:"feedback"`
	Accuracy    float64              `json:"accuracy"`
	CacheHits   int64                `json:"cache_hits"`
	CacheMisses int64                `json:"cache_misses"`
	CacheSize   int                  `json:"cache_size"`
}

func (s *Server) handleRoute(c echo.Context) error {
	var req routeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if len(message) > maxMessageLength {
		return echo.NewHTTPError(http.StatusBadRequest, "message too long")
	}

	// The primary classifier only ever forwards the tail of the history, so
	// drop older turns before converting rather than holding them all.
	turns := req.History
	if len(turns) > routing.MaxHistoryMessages {
		turns = turns[len(turns)-routing.MaxHistoryMessages:]
	}
	history := make([]llm.Message, 0, len(turns))
	for _, m := range turns {
		switch m.Role {
		case "user":
			history = append(history, llm.UserMessage(m.Content))
		case "assistant":
			history = append(history, llm.AssistantMessage(m.Content))
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "history roles must be user or assistant")
		}
	}

	decision := s.ai.Router.Route(c.Request().Context(), message, history)
	return c.JSON(http.StatusOK, decision)
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	feedback := &routing.RouterFeedback{
		DecisionID:    req.DecisionID,
		SelectedAgent: req.SelectedAgent,
		CorrectAgent:  req.CorrectAgent,
		Type:          routing.FeedbackType(req.Type),
	}
	if err := s.ai.Feedback.Record(c.Request().Context(), feedback); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": feedback.ID})
}

func (s *Server) handleAgents(c echo.Context) error {
	descriptors := s.ai.Router.Registry().Descriptors()
	agents := make([]agentInfo, 0, len(descriptors))
	for _, d := range descriptors {
		agents = append(agents, agentInfo{
			ID:       d.ID,
			Keywords: append([]string(nil), d.Keywords...),
		})
	}
	return c.JSON(http.StatusOK, agents)
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.ai.Feedback.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load stats")
	}

	resp := statsResponse{
		Feedback: stats,
		Accuracy: stats.Accuracy(),
	}
	if s.ai.Cache != nil {
		resp.CacheHits, resp.CacheMisses = s.ai.Cache.Stats()
		resp.CacheSize = s.ai.Cache.Size()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetCurrentVersion(s.profile.Mode),
	})
}
