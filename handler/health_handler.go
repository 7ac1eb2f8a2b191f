package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboss/logger"
	"taskboss/utils"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// ConnectionChecker reports whether an optional backing service is up.
type ConnectionChecker interface {
	IsConnected(ctx context.Context) bool
}

type HealthHandler struct {
	log    *logger.Logger
	db     Pinger
	cache  ConnectionChecker
	system func() utils.SystemUsage
}

func NewHealthHandler(log *logger.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "health"), db: db, system: utils.GetSystemUsage}
}

// WithCache adds the token blacklist store to the report.
func (h *HealthHandler) WithCache(cache ConnectionChecker) *HealthHandler {
	h.cache = cache
	return h
}

// HealthCheck reports liveness, database reachability and host usage.
// A failed database ping downgrades the status but still answers 200.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbOK := h.db.Ping(ctx)
	status := "ok"
	if !dbOK {
		status = "degraded"
		h.log.Warn("database ping failed")
	}

	body := gin.H{
		"database":  dbOK,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.cache != nil {
		cacheOK := h.cache.IsConnected(ctx)
		if !cacheOK {
			status = "degraded"
			h.log.Warn("redis ping failed")
		}
		body["cache"] = cacheOK
	}
	body["status"] = status
	if h.system != nil {
		body["system"] = h.system()
	}
	c.JSON(http.StatusOK, body)
}
