package http

import (
	"errors"
	"net/http"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/quiz"
	"github.com/gin-gonic/gin"
)

// QuizHandler serves the REST quiz flow.
type QuizHandler struct {
	quizzes *app.QuizService
	leads   *app.LeadService
}

type leadRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type resultsResponse struct {
	SessionID string        `json:"sessionId"`
	Result    domain.Result `json:"result"`
}

func (h *QuizHandler) Register(g *gin.RouterGroup) {
	g.GET("/catalog", h.catalog)
	g.POST("/sessions", h.start)
	g.GET("/sessions/:id", h.get)
	g.POST("/sessions/:id/intents", h.dispatch)
	g.GET("/sessions/:id/results", h.results)
	g.POST("/sessions/:id/lead", h.submitLead)
}

func (h *QuizHandler) catalog(c *gin.Context) {
	catalog, err := h.quizzes.Catalog(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *QuizHandler) start(c *gin.Context) {
	snap, err := h.quizzes.Start(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *QuizHandler) get(c *gin.Context) {
	snap, err := h.quizzes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// dispatch applies one intent:
//
//	{"type":"answer","questionId":"project-type","value":"saas","weight":35}
//	{"type":"advance"} | {"type":"retreat"}
//
// weight is honored only for values the catalog does not list.
func (h *QuizHandler) dispatch(c *gin.Context) {
	var intent quiz.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		respondError(c, http.StatusBadRequest, "invalid", "invalid intent body", err.Error())
		return
	}
	snap, err := h.quizzes.Dispatch(c.Request.Context(), c.Param("id"), intent)
	if err != nil {
		// Rejected intents carry the unchanged snapshot for re-rendering.
		var details any
		if snap.Session.ID != "" {
			details = snap
		}
		respondDomainError(c, err, details)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *QuizHandler) results(c *gin.Context) {
	result, state, err := h.quizzes.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resultsResponse{SessionID: state.ID, Result: result})
}

func (h *QuizHandler) submitLead(c *gin.Context) {
	if h.leads == nil {
		respondError(c, http.StatusNotImplemented, "unavailable", "lead capture is not configured", nil)
		return
	}
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid", "a valid email is required", err.Error())
		return
	}
	receipt, err := h.leads.SubmitLead(c.Request.Context(), c.Param("id"), domain.Contact{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLead) {
			respondError(c, http.StatusBadRequest, "invalid", err.Error(), nil)
			return
		}
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
