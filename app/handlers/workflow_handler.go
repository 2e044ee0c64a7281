package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// WorkflowHandler hands ad video production to n8n and records the result
type WorkflowHandler struct {
	baseHandler
	workflowFlow businessflow.WorkflowFlow
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowFlow businessflow.WorkflowFlow, logger *zap.Logger, timeout time.Duration) *WorkflowHandler {
	return &WorkflowHandler{
		baseHandler:  newBaseHandler(logger, timeout),
		workflowFlow: workflowFlow,
	}
}

// AdVideoForm returns the n8n form that produces ad videos
// @Summary Ad video form
// @Tags Workflow
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdVideoFormResponse}
// @Failure 503 {object} dto.APIResponse "Not configured"
// @Router /api/workflow/ad-video [get]
func (h *WorkflowHandler) AdVideoForm(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/workflow/ad-video")
	defer cancel()

	result, err := h.workflowFlow.AdVideoForm(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "/api/workflow/ad-video", "Failed to load workflow form", "WORKFLOW_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Workflow form retrieved", result)
}

// AttachAdVideo records the video produced by the workflow
// @Summary Attach ad video
// @Tags Workflow
// @Accept json
// @Produce json
// @Param request body dto.AttachAdVideoRequest true "Video"
// @Success 201 {object} dto.APIResponse{data=dto.ContentRecordDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/workflow/ad-video [post]
func (h *WorkflowHandler) AttachAdVideo(c fiber.Ctx) error {
	var req dto.AttachAdVideoRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/workflow/ad-video")
	defer cancel()

	result, err := h.workflowFlow.AttachAdVideo(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "/api/workflow/ad-video", "Failed to save ad video", "CONTENT_SAVE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Ad video saved successfully", result)
}
