package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const healthTimeout = 2 * time.Second

// Pinger is any backing store whose reachability decides health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpdateProcessor consumes webhook updates; *tele.Bot satisfies it.
type UpdateProcessor interface {
	ProcessUpdate(u tele.Update)
}

// OpsServer serves health, metrics and, in webhook mode, Telegram updates.
type OpsServer struct {
	pingers  map[string]Pinger
	gatherer prometheus.Gatherer
	updates  UpdateProcessor
	secret   string
	logger   *zap.Logger
}

func NewOpsServer(pingers map[string]Pinger, gatherer prometheus.Gatherer, logger *zap.Logger) *OpsServer {
	return &OpsServer{
		pingers:  pingers,
		gatherer: gatherer,
		logger:   logger,
	}
}

// WithWebhook enables POST /telegram/:secret.
func (s *OpsServer) WithWebhook(updates UpdateProcessor, secret string) *OpsServer {
	s.updates = updates
	s.secret = secret
	return s
}

func (s *OpsServer) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.Health)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	if s.updates != nil && s.secret != "" {
		router.POST("/telegram/:secret", s.Webhook)
	}
}

func (s *OpsServer) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	failures := gin.H{}
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("Health check failed", zap.Any("failures", failures))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "errors": failures})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *OpsServer) Webhook(c *gin.Context) {
	if c.Param("secret") != s.secret {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var update tele.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		s.logger.Error("Failed to decode update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.updates.ProcessUpdate(update)
	c.Status(http.StatusOK)
}

// NewOpsRouter builds the gin engine used by the bot process.
func NewOpsRouter(s *OpsServer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	s.RegisterRoutes(router)
	return router
}
