package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// ContentHandlerInterface defines the contract for content handlers
type ContentHandlerInterface interface {
	GenerateContent(c fiber.Ctx) error
	GenerateImage(c fiber.Ctx) error
	GenerateVideoScript(c fiber.Ctx) error
	GenerateBrandKit(c fiber.Ctx) error
	SaveContent(c fiber.Ctx) error
	ListContent(c fiber.Ctx) error
	GetContent(c fiber.Ctx) error
}

// ContentHandler handles content generation and saved content requests
type ContentHandler struct {
	baseHandler
	contentFlow  businessflow.ContentFlow
	brandKitFlow businessflow.BrandKitFlow
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentFlow businessflow.ContentFlow, brandKitFlow businessflow.BrandKitFlow, logger *zap.Logger, timeout time.Duration) *ContentHandler {
	return &ContentHandler{
		baseHandler:  newBaseHandler(logger, timeout),
		contentFlow:  contentFlow,
		brandKitFlow: brandKitFlow,
	}
}

// GenerateContent generates platform copy from a prompt
// @Summary Generate content
// @Tags Content
// @Accept json
// @Produce json
// @Param request body dto.GenerateContentRequest true "Prompt and content type"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateContentResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Generation failed"
// @Router /api/content/generate [post]
func (h *ContentHandler) GenerateContent(c fiber.Ctx) error {
	var req dto.GenerateContentRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content/generate")
	defer cancel()

	result, err := h.contentFlow.GenerateContent(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/generate", "Failed to generate content", "CONTENT_GENERATION_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Content generated successfully", result)
}

// GenerateImage generates an image and returns it as a JPEG data URL
// @Summary Generate image
// @Tags Content
// @Accept json
// @Produce json
// @Param request body dto.GenerateImageRequest true "Image prompt"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateImageResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Generation failed"
// @Router /api/content/generate-image [post]
func (h *ContentHandler) GenerateImage(c fiber.Ctx) error {
	var req dto.GenerateImageRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content/generate-image")
	defer cancel()

	result, err := h.contentFlow.GenerateImage(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/generate-image", "Failed to generate image", "IMAGE_GENERATION_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Image generated successfully", result)
}

// GenerateVideoScript writes a video script
// @Summary Generate video script
// @Tags Content
// @Accept json
// @Produce json
// @Param request body dto.GenerateVideoScriptRequest true "Prompt and options"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateVideoScriptResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Generation failed"
// @Router /api/content/video-script [post]
func (h *ContentHandler) GenerateVideoScript(c fiber.Ctx) error {
	var req dto.GenerateVideoScriptRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content/video-script")
	defer cancel()

	result, err := h.contentFlow.GenerateVideoScript(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/video-script", "Failed to generate video script", "VIDEO_SCRIPT_GENERATION_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Video script generated successfully", result)
}

// GenerateBrandKit builds a logo, palette, fonts, tone and social templates
// @Summary Generate brand kit
// @Tags Content
// @Accept json
// @Produce json
// @Param request body dto.GenerateBrandKitRequest true "Brand details"
// @Success 200 {object} dto.APIResponse{data=dto.BrandKitResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/content/brand-kit [post]
func (h *ContentHandler) GenerateBrandKit(c fiber.Ctx) error {
	var req dto.GenerateBrandKitRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content/brand-kit")
	defer cancel()

	result, err := h.brandKitFlow.GenerateBrandKit(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/brand-kit", "Failed to generate brand kit", "BRAND_KIT_GENERATION_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Brand kit generated successfully", result)
}

// SaveContent stores a piece of generated content
// @Summary Save content
// @Tags Content
// @Accept json
// @Produce json
// @Param request body dto.SaveContentRequest true "Content to keep"
// @Success 201 {object} dto.APIResponse{data=dto.ContentRecordDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Save failed"
// @Router /api/content/save [post]
func (h *ContentHandler) SaveContent(c fiber.Ctx) error {
	var req dto.SaveContentRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content/save")
	defer cancel()

	result, err := h.contentFlow.SaveContent(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/save", "Failed to save content", "CONTENT_SAVE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Content saved successfully", result)
}

// ListContent lists saved content, newest first
// @Summary List saved content
// @Tags Content
// @Produce json
// @Param type query string false "social, email, video or ad"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListContentResponse}
// @Router /api/content [get]
func (h *ContentHandler) ListContent(c fiber.Ctx) error {
	var req dto.ListContentRequest
	if ok, err := h.bindQuery(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/content")
	defer cancel()

	result, err := h.contentFlow.ListContent(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/content", "Failed to list content", "CONTENT_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Content retrieved successfully", result)
}

// GetContent returns one saved content record
// @Summary Get saved content
// @Tags Content
// @Produce json
// @Param id path string true "Content id"
// @Success 200 {object} dto.APIResponse{data=dto.ContentRecordDTO}
// @Failure 404 {object} dto.APIResponse "Content not found"
// @Router /api/content/{id} [get]
func (h *ContentHandler) GetContent(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/content/:id")
	defer cancel()

	result, err := h.contentFlow.GetContent(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "/api/content/:id", "Failed to get content", "CONTENT_LOOKUP_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Content retrieved successfully", result)
}
