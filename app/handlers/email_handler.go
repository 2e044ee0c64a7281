package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	applog "github.com/amirphl/reachbee/app/logger"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// EmailHandlerInterface defines the contract for email campaign handlers
type EmailHandlerInterface interface {
	PreviewEmail(c fiber.Ctx) error
	CreateCampaign(c fiber.Ctx) error
	TrackOpen(c fiber.Ctx) error
	GetAnalytics(c fiber.Ctx) error
	ListAnalytics(c fiber.Ctx) error
	ExportOpens(c fiber.Ctx) error
}

// EmailHandler handles email campaign, tracking pixel and analytics requests
type EmailHandler struct {
	baseHandler
	campaignFlow businessflow.EmailCampaignFlow
	trackingFlow businessflow.EmailTrackingFlow
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(campaignFlow businessflow.EmailCampaignFlow, trackingFlow businessflow.EmailTrackingFlow, logger *zap.Logger, timeout time.Duration) *EmailHandler {
	return &EmailHandler{
		baseHandler:  newBaseHandler(logger, timeout),
		campaignFlow: campaignFlow,
		trackingFlow: trackingFlow,
	}
}

// PreviewEmail drafts an email without sending it
// @Summary Preview email
// @Tags Email
// @Accept json
// @Produce json
// @Param request body dto.EmailPreviewRequest true "Prompt and campaign type"
// @Success 200 {object} dto.APIResponse{data=dto.EmailPreviewResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/email/preview [post]
func (h *EmailHandler) PreviewEmail(c fiber.Ctx) error {
	var req dto.EmailPreviewRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/email/preview")
	defer cancel()

	result, err := h.campaignFlow.PreviewEmail(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/email/preview", "Failed to generate email preview", "EMAIL_GENERATION_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Email preview generated successfully", result)
}

// CreateCampaign generates, tracks and sends an email campaign
// @Summary Send email campaign
// @Tags Email
// @Accept json
// @Produce json
// @Param request body dto.CreateEmailCampaignRequest true "Campaign"
// @Success 201 {object} dto.APIResponse{data=dto.CreateEmailCampaignResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or recipient not allowed"
// @Failure 500 {object} dto.APIResponse "Send failed"
// @Router /api/email/campaign [post]
func (h *EmailHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateEmailCampaignRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/email/campaign")
	defer cancel()

	result, err := h.campaignFlow.CreateCampaign(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "/api/email/campaign", "Failed to send email campaign", "EMAIL_SEND_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Email campaign sent successfully", result)
}

// TrackOpen serves the tracking pixel and counts one open
// @Summary Email tracking pixel
// @Tags Email
// @Produce image/gif
// @Param trackingId path string true "Tracking id"
// @Success 200 {string} string "1x1 transparent GIF"
// @Failure 404 {string} string "Unknown tracking id"
// @Failure 500 {string} string "Error tracking email open"
// @Router /api/email/{trackingId}/track [get]
func (h *EmailHandler) TrackOpen(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/email/:trackingId/track")
	defer cancel()

	err := h.trackingFlow.TrackOpen(ctx, &dto.TrackOpenRequest{
		TrackingID: c.Params("trackingId"),
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		if businessflow.IsTrackingNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("Tracking record not found")
		}
		h.logger.Error("Email open tracking failed",
			applog.WithTrackingID(c.Params("trackingId")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).SendString("Error tracking email open")
	}

	c.Set(fiber.HeaderContentType, "image/gif")
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(businessflow.TransparentGIF)))
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Set("Pragma", "no-cache")
	c.Set("Expires", "0")
	return c.Status(fiber.StatusOK).Send(businessflow.TransparentGIF)
}

// GetAnalytics returns the open analytics of one campaign
// @Summary Email campaign analytics
// @Tags Email
// @Produce json
// @Param trackingId path string true "Tracking id"
// @Success 200 {object} dto.APIResponse{data=dto.EmailAnalyticsDTO}
// @Failure 404 {object} dto.APIResponse "Unknown tracking id"
// @Router /api/email/analytics/{trackingId} [get]
func (h *EmailHandler) GetAnalytics(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/email/analytics/:trackingId")
	defer cancel()

	result, err := h.campaignFlow.GetAnalytics(ctx, c.Params("trackingId"))
	if err != nil {
		return h.handleFlowError(c, err, "/api/email/analytics/:trackingId", "Failed to fetch email analytics", "EMAIL_ANALYTICS_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Email analytics retrieved successfully", result)
}

// ListAnalytics returns the analytics of every campaign, newest first
// @Summary List email analytics
// @Tags Email
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListEmailAnalyticsResponse}
// @Router /api/email/analytics [get]
func (h *EmailHandler) ListAnalytics(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/email/analytics")
	defer cancel()

	result, err := h.campaignFlow.ListAnalytics(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "/api/email/analytics", "Failed to list email analytics", "EMAIL_ANALYTICS_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Email analytics retrieved successfully", result)
}

// ExportOpens downloads every recorded open of a campaign as an XLSX workbook
// @Summary Export email opens
// @Tags Email
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param trackingId path string true "Tracking id"
// @Success 200 {file} file "XLSX workbook"
// @Failure 404 {object} dto.APIResponse "Unknown tracking id"
// @Router /api/email/analytics/{trackingId}/export [get]
func (h *EmailHandler) ExportOpens(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/email/analytics/:trackingId/export")
	defer cancel()

	filename, data, err := h.campaignFlow.ExportOpens(ctx, c.Params("trackingId"))
	if err != nil {
		return h.handleFlowError(c, err, "/api/email/analytics/:trackingId/export", "Failed to export email opens", "EMAIL_EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(data)
}
