// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	applog "github.com/amirphl/reachbee/app/logger"
	businessflow "github.com/amirphl/reachbee/business_flow"
	"github.com/amirphl/reachbee/utils"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return err.Field() + " must be a valid URL"
	case "uuid":
		return err.Field() + " must be a valid UUID"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// baseHandler carries what every handler needs: validation, logging and the envelope helpers
type baseHandler struct {
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

func newBaseHandler(logger *zap.Logger, timeout time.Duration) baseHandler {
	if timeout <= 0 {
		timeout = utils.DefaultRequestTimeout
	}
	return baseHandler{
		validator: validator.New(),
		logger:    logger,
		timeout:   timeout,
	}
}

func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate writes a 400 response and returns false when req fails its struct tags
func (h *baseHandler) validate(c fiber.Ctx, req any) (bool, error) {
	if err := h.validator.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		validationErrors := make([]string, 0, len(ve))
		for _, fe := range ve {
			validationErrors = append(validationErrors, getValidationErrorMessage(fe))
		}
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return true, nil
}

// bindJSON parses and validates a JSON body; ok is false when a response was already written
func (h *baseHandler) bindJSON(c fiber.Ctx, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	return h.validate(c, req)
}

// bindQuery parses and validates query parameters
func (h *baseHandler) bindQuery(c fiber.Ctx, req any) (bool, error) {
	if err := c.Bind().Query(req); err != nil {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	return h.validate(c, req)
}

func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestID(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, h.timeout)
	return ctx, cancel
}

func requestID(c fiber.Ctx) string {
	if id := c.Get(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
}

func (h *baseHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestID(c))
	return metadata
}

// handleFlowError maps business errors to HTTP responses.
// Unmapped errors become 500 with the fallback message and the business error code when there is one.
func (h *baseHandler) handleFlowError(c fiber.Ctx, err error, endpoint, fallbackMessage, fallbackCode string) error {
	switch {
	case businessflow.IsPromptRequired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Prompt is required", "PROMPT_REQUIRED", nil)
	case businessflow.IsInvalidContentType(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid content type", "INVALID_CONTENT_TYPE", nil)
	case businessflow.IsInvalidDataURL(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image data", "INVALID_IMAGE_DATA", nil)
	case businessflow.IsPhoneAndMessageRequired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Phone number and message are required", "PHONE_AND_MESSAGE_REQUIRED", nil)
	case businessflow.IsInstagramUsernameRequired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username is required", "USERNAME_REQUIRED", nil)
	case businessflow.IsInvalidDateRange(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "End date must not be before start date", "INVALID_DATE_RANGE", nil)
	case businessflow.IsInvalidCampaignID(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign id", "INVALID_CAMPAIGN_ID", nil)
	case businessflow.IsRecipientNotAllowed(err):
		var be *businessflow.BusinessError
		msg := "Recipient is not allowed"
		if errors.As(err, &be) {
			msg = be.Message
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, msg, "RECIPIENT_NOT_ALLOWED", nil)
	case businessflow.IsNoRecipients(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No recipients configured", "NO_RECIPIENTS", nil)
	case businessflow.IsTrackingNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Tracking record not found", "TRACKING_NOT_FOUND", nil)
	case businessflow.IsCampaignNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
	case businessflow.IsContentNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Content not found", "CONTENT_NOT_FOUND", nil)
	case businessflow.IsInstagramProfileNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Instagram profile not found", "PROFILE_NOT_FOUND", nil)
	case businessflow.IsTwitterRateLimited(err):
		return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Twitter rate limit reached", "TWITTER_RATE_LIMITED", fiber.Map{"rate_limited": true})
	case businessflow.IsTwitterDisabled(err):
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Twitter integration is disabled", "TWITTER_DISABLED", nil)
	case businessflow.IsWorkflowNotConfigured(err):
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Workflow form is not configured", "WORKFLOW_NOT_CONFIGURED", nil)
	}

	code := fallbackCode
	var be *businessflow.BusinessError
	if errors.As(err, &be) && be.Code != "" {
		code = be.Code
	}
	h.logger.Error(fallbackMessage,
		zap.String("endpoint", endpoint),
		zap.String("code", code),
		applog.WithRequestID(requestID(c)),
		zap.Error(err),
	)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, code, nil)
}
