package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	LaunchCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	baseHandler
	campaignFlow businessflow.CampaignFlow
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow, logger *zap.Logger, timeout time.Duration) *CampaignHandler {
	return &CampaignHandler{
		baseHandler:  newBaseHandler(logger, timeout),
		campaignFlow: campaignFlow,
	}
}

// LaunchCampaign stores a campaign and posts it to Twitter when targeted
// @Summary Launch campaign
// @Description A Twitter failure does not fail the launch; it is reported in twitterError
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.LaunchCampaignRequest true "Campaign"
// @Success 201 {object} dto.APIResponse{data=dto.LaunchCampaignResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/campaigns [post]
func (h *CampaignHandler) LaunchCampaign(c fiber.Ctx) error {
	var req dto.LaunchCampaignRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/campaigns")
	defer cancel()

	result, err := h.campaignFlow.Launch(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/campaigns", "Campaign launch failed", "CAMPAIGN_LAUNCH_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Campaign launched successfully", result)
}

// ListCampaigns lists campaigns newest first
// @Summary List campaigns
// @Tags Campaigns
// @Produce json
// @Param userId query string false "Owner"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse}
// @Router /api/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	var req dto.ListCampaignsRequest
	if ok, err := h.bindQuery(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/campaigns")
	defer cancel()

	result, err := h.campaignFlow.List(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/campaigns", "Failed to list campaigns", "CAMPAIGN_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}

// GetCampaign returns one campaign
// @Summary Get campaign
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign id"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO}
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/campaigns/:id")
	defer cancel()

	result, err := h.campaignFlow.Get(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "/api/campaigns/:id", "Failed to fetch campaign", "CAMPAIGN_FETCH_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}
