package http

import (
	"net/http"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes archived leads to the site owner.
type AdminHandler struct {
	leads *app.LeadService
}

type leadsResponse struct {
	Email string              `json:"email"`
	Leads []domain.LeadRecord `json:"leads"`
}

func (h *AdminHandler) Register(g *gin.RouterGroup) {
	g.GET("/leads", h.listLeads)
}

func (h *AdminHandler) listLeads(c *gin.Context) {
	email := c.Query("email")
	leads, err := h.leads.Leads(c.Request.Context(), email)
	if err != nil {
		respondDomainError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, leadsResponse{Email: email, Leads: leads})
}
