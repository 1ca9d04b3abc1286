package http

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Message  string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	appDB     *gorm.DB
	authDB    *gorm.DB
	publisher *kafka.Publisher
	ping      func(ctx context.Context, db *gorm.DB) error
	logger    zerolog.Logger
}

// HealthHandlerParams defines parameters for HealthHandler
type HealthHandlerParams struct {
	fx.In

	AppDB     *gorm.DB
	AuthDB    *gorm.DB `name:"auth"`
	Publisher *kafka.Publisher
	Logger    zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		appDB:     params.AppDB,
		authDB:    params.AuthDB,
		publisher: params.Publisher,
		ping:      database.Ping,
		logger:    params.Logger,
	}
}

// Handle handles GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components := h.checkComponents(ctx)
	status := determineOverallStatus(components)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Interface("components", components).
		Msg("Health check completed")

	httputil.WriteHealthResponse(ctx, response, status != HealthStatusUnhealthy)
}

func (h *HealthHandler) checkComponents(ctx context.Context) []ComponentHealth {
	components := make([]ComponentHealth, 0, 3)

	for _, store := range []struct {
		name string
		db   *gorm.DB
	}{
		{"app_db", h.appDB},
		{"auth_db", h.authDB},
	} {
		component := ComponentHealth{Name: store.name, Healthy: true, Critical: true}
		if err := h.ping(ctx, store.db); err != nil {
			component.Healthy = false
			component.Message = err.Error()
		}
		components = append(components, component)
	}

	producer := ComponentHealth{Name: "kafka_producer", Healthy: h.publisher.IsHealthy()}
	switch {
	case !h.publisher.Enabled():
		producer.Message = "disabled"
	case !producer.Healthy:
		producer.Message = "last send failed"
	}
	components = append(components, producer)

	return components
}

// determineOverallStatus is unhealthy when a critical component is down and
// degraded when only optional ones are.
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	status := HealthStatusHealthy
	for _, c := range components {
		if c.Healthy {
			continue
		}
		if c.Critical {
			return HealthStatusUnhealthy
		}
		status = HealthStatusDegraded
	}
	return status
}
