package app

import (
	"context"
	"net/http"
	"time"

	httputil "ginhawa/pkg/http"
	kafka_middleware "ginhawa/pkg/kafka/middleware"
	"ginhawa/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service,omitempty"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`

	Events *kafka_middleware.Snapshot `json:"events,omitempty"`
}

type HealthHandler struct {
	service     string
	mongoClient *mongo.Client
	redisClient *redis.Client
	metrics     *kafka_middleware.Metrics
	log         *logger.Logger
}

// NewHealthHandler builds the health endpoints. metrics may be nil, in which
// case /ready carries no event counters.
func NewHealthHandler(service string, mongoClient *mongo.Client, redisClient *redis.Client, metrics *kafka_middleware.Metrics, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		service:     service,
		mongoClient: mongoClient,
		redisClient: redisClient,
		metrics:     metrics,
		log:         log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: h.service}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready reports 503 unless MongoDB answers a ping. Redis is optional and
// only reported.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", Service: h.service, Database: "ok"}
	status := http.StatusOK

	if h.mongoClient == nil {
		resp.Status, resp.Database, status = "unavailable", "not configured", http.StatusServiceUnavailable
	} else if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
		resp.Status, resp.Database, status = "unavailable", "error", http.StatusServiceUnavailable
	}

	if h.redisClient != nil {
		resp.Cache = "ok"
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			h.log.Warn("Redis health check failed", "error", err)
			resp.Cache = "error"
		}
	}

	if h.metrics != nil {
		snapshot := h.metrics.Snapshot()
		resp.Events = &snapshot
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
