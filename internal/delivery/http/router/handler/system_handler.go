package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"tradelink/internal/delivery/http/response"
	"tradelink/internal/infra/metrics"
	"tradelink/internal/syncer"
)

// SystemHandler serves health and metrics endpoints.
type SystemHandler struct {
	syncer  *syncer.Syncer
	metrics *metrics.Metrics
}

// SystemHandlerParams holds dependencies for SystemHandler, injected by Fx.
// The syncer is absent in offline mode; health then reports offline.
type SystemHandlerParams struct {
	fx.In

	Syncer  *syncer.Syncer `optional:"true"`
	Metrics *metrics.Metrics
}

// NewSystemHandler is the constructor for SystemHandler.
func NewSystemHandler(params SystemHandlerParams) *SystemHandler {
	return &SystemHandler{syncer: params.Syncer, metrics: params.Metrics}
}

// Health reports liveness and the gateway connection state.
func (h *SystemHandler) Health(c echo.Context) error {
	body := map[string]any{"status": "ok"}
	if h.syncer != nil {
		body["gateway_connected"] = h.syncer.Connected()
	} else {
		body["mode"] = "offline"
	}

	return response.Success(c, http.StatusOK, body, "Service is healthy")
}

// Metrics serves the Prometheus registry.
func (h *SystemHandler) Metrics(c echo.Context) error {
	handler := promhttp.HandlerFor(h.metrics.Registry(), promhttp.HandlerOpts{})
	handler.ServeHTTP(c.Response(), c.Request())

	return nil
}
