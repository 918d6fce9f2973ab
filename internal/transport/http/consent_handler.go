package http

import (
	"log"
	"net/http"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	visitorCookie = "visitor"
	visitorIDKey  = "id"
)

// ConsentHandler stores cookie consent per visitor cookie.
type ConsentHandler struct {
	consent *app.ConsentService
	cookies sessions.Store
}

type consentRequest struct {
	Analytics *bool `json:"analytics" binding:"required"`
}

func (h *ConsentHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.get)
	g.POST("", h.save)
	g.POST("/accept-all", h.acceptAll)
	g.POST("/reject-all", h.rejectAll)
}

func (h *ConsentHandler) get(c *gin.Context) {
	visitorID := h.visitorID(c, false)
	if visitorID == "" {
		respondDomainError(c, domain.ErrConsentNotFound, nil)
		return
	}
	record, err := h.consent.Get(c.Request.Context(), visitorID)
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ConsentHandler) save(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid", "analytics choice is required", err.Error())
		return
	}
	h.store(c, func(visitorID string) (domain.ConsentRecord, error) {
		return h.consent.SavePreferences(c.Request.Context(), visitorID, *req.Analytics)
	})
}

func (h *ConsentHandler) acceptAll(c *gin.Context) {
	h.store(c, func(visitorID string) (domain.ConsentRecord, error) {
		return h.consent.AcceptAll(c.Request.Context(), visitorID)
	})
}

func (h *ConsentHandler) rejectAll(c *gin.Context) {
	h.store(c, func(visitorID string) (domain.ConsentRecord, error) {
		return h.consent.RejectAll(c.Request.Context(), visitorID)
	})
}

func (h *ConsentHandler) store(c *gin.Context, decide func(visitorID string) (domain.ConsentRecord, error)) {
	record, err := decide(h.visitorID(c, true))
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, record)
}

// visitorID reads the visitor cookie, issuing a new id when create is set.
func (h *ConsentHandler) visitorID(c *gin.Context, create bool) string {
	session, err := h.cookies.Get(c.Request, visitorCookie)
	if err != nil {
		log.Printf("decode visitor cookie: %v", err)
	}
	id, _ := session.Values[visitorIDKey].(string)
	if id != "" || !create {
		return id
	}
	id = uuid.NewString()
	session.Values[visitorIDKey] = id
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("save visitor cookie: %v", err)
	}
	return id
}
