package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// SocialHandlerInterface defines the contract for social platform handlers
type SocialHandlerInterface interface {
	PostTweet(c fiber.Ctx) error
	PostTweetBatch(c fiber.Ctx) error
	TwitterAnalytics(c fiber.Ctx) error
	SaveImage(c fiber.Ctx) error
	SendWhatsApp(c fiber.Ctx) error
	AnalyzeInstagram(c fiber.Ctx) error
}

// SocialHandler handles Twitter, WhatsApp, Instagram and image storage requests
type SocialHandler struct {
	baseHandler
	socialFlow businessflow.SocialFlow
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialFlow businessflow.SocialFlow, logger *zap.Logger, timeout time.Duration) *SocialHandler {
	return &SocialHandler{
		baseHandler: newBaseHandler(logger, timeout),
		socialFlow:  socialFlow,
	}
}

// PostTweet posts one tweet with an optional image
// @Summary Post tweet
// @Tags Social
// @Accept json
// @Produce json
// @Param request body dto.TweetRequest true "Tweet"
// @Success 201 {object} dto.APIResponse{data=dto.TweetResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 429 {object} dto.APIResponse "Rate limited"
// @Router /api/social/twitter/post [post]
func (h *SocialHandler) PostTweet(c fiber.Ctx) error {
	var req dto.TweetRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/social/twitter/post")
	defer cancel()

	result, err := h.socialFlow.PostTweet(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/twitter/post", "Failed to post to Twitter", "TWITTER_POST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Tweet posted successfully", result)
}

// PostTweetBatch posts several tweets and stops at the first rate limit
// @Summary Post tweet batch
// @Tags Social
// @Accept json
// @Produce json
// @Param request body dto.TweetBatchRequest true "Tweets"
// @Success 200 {object} dto.APIResponse{data=dto.TweetBatchResponse}
// @Router /api/social/twitter/batch [post]
func (h *SocialHandler) PostTweetBatch(c fiber.Ctx) error {
	var req dto.TweetBatchRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/social/twitter/batch")
	defer cancel()

	result, err := h.socialFlow.PostTweetBatch(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/twitter/batch", "Failed to post to Twitter", "TWITTER_POST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Tweet batch processed", result)
}

// TwitterAnalytics summarizes recent tweets
// @Summary Twitter analytics
// @Tags Social
// @Produce json
// @Param maxResults query int false "5 to 100"
// @Success 200 {object} dto.APIResponse{data=dto.TwitterAnalyticsResponse}
// @Router /api/social/twitter/analytics [get]
func (h *SocialHandler) TwitterAnalytics(c fiber.Ctx) error {
	var req dto.TwitterAnalyticsRequest
	if ok, err := h.bindQuery(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/social/twitter/analytics")
	defer cancel()

	result, err := h.socialFlow.TwitterAnalytics(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/twitter/analytics", "Failed to fetch Twitter analytics", "TWITTER_ANALYTICS_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Twitter analytics retrieved successfully", result)
}

// SaveImage stores a data URL image in object storage
// @Summary Save image
// @Tags Social
// @Accept json
// @Produce json
// @Param request body dto.SaveImageRequest true "Image"
// @Success 201 {object} dto.APIResponse{data=dto.SaveImageResponse}
// @Failure 400 {object} dto.APIResponse "Invalid image data"
// @Router /api/social/save-image [post]
func (h *SocialHandler) SaveImage(c fiber.Ctx) error {
	var req dto.SaveImageRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/social/save-image")
	defer cancel()

	result, err := h.socialFlow.SaveImage(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/save-image", "Failed to save image", "IMAGE_SAVE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Image saved successfully", result)
}

// SendWhatsApp sends one WhatsApp message
// @Summary Send WhatsApp message
// @Tags Social
// @Accept json
// @Produce json
// @Param request body dto.WhatsAppSendRequest true "Message"
// @Success 200 {object} dto.APIResponse{data=dto.WhatsAppSendResponse}
// @Failure 400 {object} dto.APIResponse "Phone number and message are required"
// @Router /api/social/whatsapp/send [post]
func (h *SocialHandler) SendWhatsApp(c fiber.Ctx) error {
	var req dto.WhatsAppSendRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, "/api/social/whatsapp/send")
	defer cancel()

	result, err := h.socialFlow.SendWhatsApp(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/whatsapp/send", "Failed to send WhatsApp message", "WHATSAPP_SEND_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "WhatsApp message sent successfully", result)
}

// AnalyzeInstagram analyses a public Instagram profile
// @Summary Instagram competitor analysis
// @Tags Social
// @Produce json
// @Param username path string true "Instagram username"
// @Success 200 {object} dto.APIResponse{data=dto.InstagramAnalysisResponse}
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /api/social/instagram/{username} [get]
func (h *SocialHandler) AnalyzeInstagram(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/social/instagram/:username")
	defer cancel()

	result, err := h.socialFlow.AnalyzeInstagram(ctx, c.Params("username"))
	if err != nil {
		return h.handleFlowError(c, err, "/api/social/instagram/:username", "Failed to analyze Instagram profile", "INSTAGRAM_ANALYSIS_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Instagram analysis completed", result)
}
