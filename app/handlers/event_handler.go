package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// EventHandler serves trending events
type EventHandler struct {
	baseHandler
	eventFlow businessflow.EventFlow
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventFlow businessflow.EventFlow, logger *zap.Logger, timeout time.Duration) *EventHandler {
	return &EventHandler{
		baseHandler: newBaseHandler(logger, timeout),
		eventFlow:   eventFlow,
	}
}

// Upcoming lists upcoming events by descending priority
// @Summary Upcoming trending events
// @Tags Events
// @Produce json
// @Param days query int false "Look-ahead window in days (default 10)"
// @Success 200 {object} dto.APIResponse{data=dto.UpcomingEventsResponse}
// @Router /api/events/upcoming [get]
func (h *EventHandler) Upcoming(c fiber.Ctx) error {
	var req dto.UpcomingEventsRequest
	if ok, err := h.bindQuery(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/events/upcoming")
	defer cancel()

	result, err := h.eventFlow.Upcoming(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/events/upcoming", "Failed to fetch trending events", "EVENTS_FETCH_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Trending events retrieved successfully", result)
}

// Refresh pulls every event source now
// @Summary Refresh trending events
// @Tags Events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RefreshEventsResponse}
// @Router /api/events/refresh [post]
func (h *EventHandler) Refresh(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/events/refresh")
	defer cancel()

	result, err := h.eventFlow.Refresh(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "/api/events/refresh", "Failed to refresh trending events", "EVENTS_REFRESH_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Trending events refreshed", result)
}
