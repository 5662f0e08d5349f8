package main

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"memories/pkg/config"
	"memories/pkg/store"
)

type server struct {
	cfg   config.Config
	store *store.Store
	log   zerolog.Logger
	auth  *authenticator // nil when ACCESS_PASSWORD_HASH is unset
}

func newServer(cfg config.Config, st *store.Store, log zerolog.Logger) (*server, error) {
	s := &server{cfg: cfg, store: st, log: log}
	if cfg.Auth.PasswordHash != "" {
		a, err := newAuthenticator(cfg.Auth)
		if err != nil {
			return nil, err
		}
		if cfg.Auth.JWTSecret == "" {
			log.Warn().Msg("JWT_SECRET not set; tokens will not survive a restart")
		}
		s.auth = a
	}
	return s, nil
}

func (s *server) routes() *gin.Engine {
	if s.log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestLogger(s.log), recovery(), corsMiddleware(s.cfg.CORSOrigins), bodyLimit(s.cfg.MaxBodyMB))

	r.GET("/healthz", s.healthHandler)

	api := r.Group("/api")
	if s.auth != nil {
		api.POST("/login", s.loginHandler)
		api.Use(s.auth.middleware())
	}
	api.POST("/images", s.uploadImageHandler)
	mount(api, "/places", s, s.store.Places, "Lugar deletado com sucesso!")
	mount(api, "/travel_ideas", s, s.store.TravelIdeas, "Viagem deletada")
	mount(api, "/financial_goals", s, s.store.FinancialGoals, "Meta deletada")
	return r
}

// requestLogger tags every request with an id and logs one line when it completes.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		l := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		if status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		zerolog.Ctx(c.Request.Context()).Error().Interface("panic", rec).Msg("handler panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	return cors.New(cfg)
}

// bodyLimit caps request bodies at mb megabytes. Inline images make bodies large,
// so the limit is generous.
func bodyLimit(mb int64) gin.HandlerFunc {
	limit := mb << 20
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func (s *server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": s.store.Driver()})
}

// bindError answers a request whose body could not be decoded.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
