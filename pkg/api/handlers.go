package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/artusm/funny-learn-notifier/pkg/config"
	"github.com/artusm/funny-learn-notifier/pkg/metrics"
	"github.com/artusm/funny-learn-notifier/pkg/models"
	"github.com/artusm/funny-learn-notifier/pkg/pipeline"
	"github.com/artusm/funny-learn-notifier/pkg/store"
)

// Pipeline is the single operation the trigger endpoint needs.
type Pipeline interface {
	Run(ctx context.Context, trigger string) models.OutcomeReport
}

// Handlers wires the manual trigger, image retrieval and metrics routes.
type Handlers struct {
	cfg   config.Config
	pipe  Pipeline
	store store.ImageStore
	reg   *metrics.Registry
}

// NewHandlers constructs Handlers. store and reg may be nil; the matching
// routes are simply not registered then.
func NewHandlers(cfg config.Config, pipe Pipeline, st store.ImageStore, reg *metrics.Registry) *Handlers {
	return &Handlers{cfg: cfg, pipe: pipe, store: st, reg: reg}
}

// Register attaches all routes. Only GET and POST are registered on "/";
// echo answers 405 for everything else.
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/", h.Trigger)
	e.POST("/", h.Trigger)
	if h.store != nil {
		e.GET("/images/last", h.LastImage)
		e.GET("/images/:id", h.ImageByID)
	}
	if h.reg != nil {
		e.GET("/metrics", h.reg.EchoHandlerText)
		e.GET("/metrics.json", h.reg.EchoHandlerJSON)
	}
}

// Trigger runs the pipeline for a manual activation. Outside development the
// password query parameter must match the configured secret; with no secret
// configured manual triggers are always rejected.
func (h *Handlers) Trigger(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.cfg.IsDevelopment() {
		supplied := c.QueryParam("password")
		if h.cfg.TriggerPassword == "" || supplied != h.cfg.TriggerPassword {
			log.Ctx(ctx).Warn().Msg("manual trigger rejected: bad password")
			if h.reg != nil {
				h.reg.Inc(ctx, "manual_triggers_rejected_total", nil, 1)
			}
			return c.JSON(http.StatusUnauthorized, models.OutcomeReport{
				Success: false,
				Error:   "unauthorized",
			})
		}
	}

	report := h.pipe.Run(ctx, pipeline.TriggerManual)
	if !report.Success {
		return c.JSON(http.StatusInternalServerError, report)
	}
	return c.JSON(http.StatusOK, report)
}

// LastImage serves the most recently posted image while its TTL lasts.
func (h *Handlers) LastImage(c echo.Context) error {
	data, _, ok := h.store.Latest(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusNotFound, models.OutcomeReport{Success: false, Error: "no image available"})
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// ImageByID serves a retained image by its identifier.
func (h *Handlers) ImageByID(c echo.Context) error {
	data, ok := h.store.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, models.OutcomeReport{Success: false, Error: "no image available"})
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
