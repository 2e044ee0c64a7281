// Package businessflow contains the core business logic for content, email, campaign, social and event workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Content-related errors
	ErrPromptRequired     = errors.New("prompt is required")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrContentNotFound    = errors.New("content not found")

	// Email-related errors
	ErrTrackingNotFound    = errors.New("tracking record not found")
	ErrInvalidTrackingID   = errors.New("invalid tracking id")
	ErrRecipientNotAllowed = errors.New("recipient is not in the allow-list")
	ErrNoRecipients        = errors.New("no recipients configured")
	ErrAllSendsFailed      = errors.New("email could not be delivered to any recipient")

	// Campaign-related errors
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrInvalidCampaignID = errors.New("invalid campaign id")
	ErrInvalidDateRange  = errors.New("end date is before start date")

	// Social-related errors
	ErrTwitterRateLimited        = errors.New("twitter rate limit reached")
	ErrTwitterDisabled           = errors.New("twitter integration is disabled")
	ErrInvalidDataURL            = errors.New("invalid image data url")
	ErrPhoneAndMessageRequired   = errors.New("phone number and message are required")
	ErrInstagramProfileNotFound  = errors.New("instagram profile not found")
	ErrInstagramUsernameRequired = errors.New("instagram username is required")

	// Workflow-related errors
	ErrWorkflowNotConfigured = errors.New("workflow form is not configured")

	// Cache errors
	ErrCacheNotAvailable = errors.New("cache not available")
)

// BusinessError wraps a failure with a stable code for API responses
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// Helper functions to check error types
func IsPromptRequired(err error) bool {
	return errors.Is(err, ErrPromptRequired)
}

func IsInvalidContentType(err error) bool {
	return errors.Is(err, ErrInvalidContentType)
}

func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

func IsTrackingNotFound(err error) bool {
	return errors.Is(err, ErrTrackingNotFound)
}

func IsInvalidTrackingID(err error) bool {
	return errors.Is(err, ErrInvalidTrackingID)
}

func IsRecipientNotAllowed(err error) bool {
	return errors.Is(err, ErrRecipientNotAllowed)
}

func IsNoRecipients(err error) bool {
	return errors.Is(err, ErrNoRecipients)
}

func IsAllSendsFailed(err error) bool {
	return errors.Is(err, ErrAllSendsFailed)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsInvalidCampaignID(err error) bool {
	return errors.Is(err, ErrInvalidCampaignID)
}

func IsInvalidDateRange(err error) bool {
	return errors.Is(err, ErrInvalidDateRange)
}

func IsTwitterRateLimited(err error) bool {
	return errors.Is(err, ErrTwitterRateLimited)
}

func IsTwitterDisabled(err error) bool {
	return errors.Is(err, ErrTwitterDisabled)
}

func IsInvalidDataURL(err error) bool {
	return errors.Is(err, ErrInvalidDataURL)
}

func IsPhoneAndMessageRequired(err error) bool {
	return errors.Is(err, ErrPhoneAndMessageRequired)
}

func IsInstagramProfileNotFound(err error) bool {
	return errors.Is(err, ErrInstagramProfileNotFound)
}

func IsInstagramUsernameRequired(err error) bool {
	return errors.Is(err, ErrInstagramUsernameRequired)
}

func IsWorkflowNotConfigured(err error) bool {
	return errors.Is(err, ErrWorkflowNotConfigured)
}
