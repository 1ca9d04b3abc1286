package http

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
)

func newHealthHandler(authErr error) *HealthHandler {
	authDB := &gorm.DB{}
	h := NewHealthHandler(HealthHandlerParams{
		AppDB:     &gorm.DB{},
		AuthDB:    authDB,
		Publisher: kafka.NewPublisher(nil, "", zerolog.Nop()),
		Logger:    zerolog.Nop(),
	})
	h.ping = func(ctx context.Context, db *gorm.DB) error {
		if db == authDB {
			return authErr
		}
		return nil
	}
	return h
}

func TestHealthHandler_Handle(t *testing.T) {
	tests := []struct {
		name    string
		authErr error
		status  int
		health  HealthStatus
	}{
		{"both stores up", nil, fasthttp.StatusOK, HealthStatusHealthy},
		{"auth store down", errors.New("connection refused"), fasthttp.StatusServiceUnavailable, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			newHealthHandler(tt.authErr).Handle(&ctx)

			assert.Equal(t, tt.status, ctx.Response.StatusCode())

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.Equal(t, tt.health, resp.Status)
			require.Len(t, resp.Components, 3)
			assert.Equal(t, "kafka_producer", resp.Components[2].Name)
			assert.Equal(t, "disabled", resp.Components[2].Message)
		})
	}
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, HealthStatusDegraded, determineOverallStatus([]ComponentHealth{
		{Name: "app_db", Healthy: true, Critical: true},
		{Name: "kafka_producer", Healthy: false},
	}))
	assert.Equal(t, HealthStatusUnhealthy, determineOverallStatus([]ComponentHealth{
		{Name: "app_db", Healthy: false, Critical: true},
		{Name: "kafka_producer", Healthy: false},
	}))
}
