package http

import (
	"crypto/rand"
	"log"
	"net/http"
	"time"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Quiz    *app.QuizService
	Leads   *app.LeadService
	Consent *app.ConsentService
}

// Options tunes the HTTP surface.
type Options struct {
	CORSOrigins   []string
	SessionSecret string
	ConsentMaxAge time.Duration
	// AdminToken enables the lead export routes when set.
	AdminToken string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		RequestID(),
		Logging(),
		Recovery(),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	quizHandler := &QuizHandler{quizzes: svc.Quiz, leads: svc.Leads}
	api := r.Group("/api/v1")
	quizHandler.Register(api.Group("/quiz"))

	if svc.Consent != nil {
		store := sessions.NewCookieStore(sessionKey(opts.SessionSecret))
		maxAge := opts.ConsentMaxAge
		if maxAge <= 0 {
			maxAge = app.DefaultConsentExpiry
		}
		store.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		consentHandler := &ConsentHandler{consent: svc.Consent, cookies: store}
		consentHandler.Register(api.Group("/consent"))
	}

	if svc.Leads != nil && opts.AdminToken != "" {
		adminHandler := &AdminHandler{leads: svc.Leads}
		adminHandler.Register(api.Group("/admin", BearerAuth(opts.AdminToken)))
	}

	ws := NewWSHandler(svc.Quiz, svc.Leads)
	r.GET("/ws", gin.WrapF(ws.ServeWS))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Accept", "Origin", "Authorization", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// sessionKey returns the cookie signing key, generating a per-process key when none is configured.
func sessionKey(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Printf("generate session key: %v", err)
	}
	log.Println("Warning: server.session_secret is empty, visitor cookies will not survive restarts")
	return key
}
