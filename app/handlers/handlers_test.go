package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
}

type stubTrackingFlow struct {
	err   error
	calls []*dto.TrackOpenRequest
}

func (s *stubTrackingFlow) TrackOpen(_ context.Context, req *dto.TrackOpenRequest) error {
	s.calls = append(s.calls, req)
	return s.err
}

type stubEmailCampaignFlow struct {
	businessflow.EmailCampaignFlow
	createErr error
	created   *dto.CreateEmailCampaignRequest
}

func (s *stubEmailCampaignFlow) CreateCampaign(_ context.Context, req *dto.CreateEmailCampaignRequest, _ *businessflow.ClientMetadata) (*dto.CreateEmailCampaignResponse, error) {
	s.created = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.CreateEmailCampaignResponse{}, nil
}

type stubContentFlow struct {
	businessflow.ContentFlow
	err error
}

func (s *stubContentFlow) GenerateContent(_ context.Context, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GenerateContentResponse{Content: "generated: " + req.Prompt}, nil
}

func (s *stubContentFlow) GetContent(_ context.Context, id string) (*dto.ContentRecordDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ContentRecordDTO{ID: id, Type: "social", Content: "saved"}, nil
}

type stubSocialFlow struct {
	businessflow.SocialFlow
	err error
}

func (s *stubSocialFlow) PostTweet(_ context.Context, req *dto.TweetRequest) (*dto.TweetResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TweetResponse{TweetID: "1", Text: req.Text}, nil
}

func (s *stubSocialFlow) SendWhatsApp(_ context.Context, req *dto.WhatsAppSendRequest) (*dto.WhatsAppSendResponse, error) {
	if req.Phone == "" || req.Message == "" {
		return nil, businessflow.ErrPhoneAndMessageRequired
	}
	return &dto.WhatsAppSendResponse{SID: "SM1", Status: "queued"}, nil
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func newEmailApp(tracking *stubTrackingFlow, campaigns *stubEmailCampaignFlow) *fiber.App {
	h := NewEmailHandler(campaigns, tracking, zap.NewNop(), time.Second)
	app := fiber.New()
	app.Get("/api/email/:trackingId/track", h.TrackOpen)
	app.Post("/api/email/campaign", h.CreateCampaign)
	return app
}

func TestTrackOpen_ServesPixelWithNoCacheHeaders(t *testing.T) {
	tracking := &stubTrackingFlow{}
	app := newEmailApp(tracking, &stubEmailCampaignFlow{})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/email/abc123/track", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, strconv.Itoa(len(businessflow.TransparentGIF)), resp.Header.Get(fiber.HeaderContentLength))
	assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
	assert.Equal(t, "0", resp.Header.Get("Expires"))
	assert.Equal(t, businessflow.TransparentGIF, raw)
	require.Len(t, tracking.calls, 1)
	assert.Equal(t, "abc123", tracking.calls[0].TrackingID)
}

func TestTrackOpen_UnknownIDReturnsPlainText404(t *testing.T) {
	app := newEmailApp(&stubTrackingFlow{err: businessflow.ErrTrackingNotFound}, &stubEmailCampaignFlow{})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/email/missing/track", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Tracking record not found", string(raw))
}

func TestTrackOpen_StoreFailureReturnsPlainText500(t *testing.T) {
	app := newEmailApp(&stubTrackingFlow{err: errors.New("db down")}, &stubEmailCampaignFlow{})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/email/abc/track", "")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error tracking email open", string(raw))
}

func TestCreateCampaign_RecipientNotAllowed(t *testing.T) {
	flowErr := businessflow.NewBusinessError("RECIPIENT_NOT_ALLOWED", "Email stranger@example.com is not in the allowed list", businessflow.ErrRecipientNotAllowed)
	campaigns := &stubEmailCampaignFlow{createErr: flowErr}
	app := newEmailApp(&stubTrackingFlow{}, campaigns)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/email/campaign",
		`{"prompt":"spring sale","subject":"Hello","campaignType":"promotional","recipients":["stranger@example.com"]}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, raw)
	assert.False(t, body.Success)
	assert.Equal(t, "RECIPIENT_NOT_ALLOWED", body.Error.Code)
	assert.Contains(t, body.Message, "stranger@example.com")
}

func TestCreateCampaign_SendFailureKeepsFlowCode(t *testing.T) {
	flowErr := businessflow.NewBusinessError("EMAIL_SEND_FAILED", "send failed", businessflow.ErrAllSendsFailed)
	app := newEmailApp(&stubTrackingFlow{}, &stubEmailCampaignFlow{createErr: flowErr})

	resp, raw := doRequest(t, app, http.MethodPost, "/api/email/campaign",
		`{"prompt":"p","subject":"s","campaignType":"newsletter"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "EMAIL_SEND_FAILED", decode(t, raw).Error.Code)
}

func TestCreateCampaign_ValidationError(t *testing.T) {
	campaigns := &stubEmailCampaignFlow{}
	app := newEmailApp(&stubTrackingFlow{}, campaigns)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/email/campaign", `{"subject":"no prompt"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, raw).Error.Code)
	assert.Nil(t, campaigns.created)
}

func TestGenerateContent(t *testing.T) {
	tests := []struct {
		name       string
		flowErr    error
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"prompt":"coffee shop launch"}`, wantStatus: http.StatusOK},
		{name: "missing prompt", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "malformed body", body: `{"prompt":`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{
			name:       "provider failure",
			body:       `{"prompt":"x"}`,
			flowErr:    businessflow.NewBusinessError("CONTENT_GENERATION_FAILED", "failed", errors.New("upstream 503")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "CONTENT_GENERATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewContentHandler(&stubContentFlow{err: tt.flowErr}, nil, zap.NewNop(), time.Second)
			app := fiber.New()
			app.Post("/api/content/generate", h.GenerateContent)

			resp, raw := doRequest(t, app, http.MethodPost, "/api/content/generate", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode(t, raw)
			if tt.wantCode == "" {
				assert.True(t, body.Success)
				var data dto.GenerateContentResponse
				require.NoError(t, json.Unmarshal(body.Data, &data))
				assert.Equal(t, "generated: coffee shop launch", data.Content)
				return
			}
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestGetContent(t *testing.T) {
	const id = "7d1c3a52-1f0e-4c55-9a43-2f6a5f0f7b10"

	t.Run("found", func(t *testing.T) {
		h := NewContentHandler(&stubContentFlow{}, nil, zap.NewNop(), time.Second)
		app := fiber.New()
		app.Get("/api/content/:id", h.GetContent)

		resp, raw := doRequest(t, app, http.MethodGet, "/api/content/"+id, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var data dto.ContentRecordDTO
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &data))
		assert.Equal(t, id, data.ID)
	})

	t.Run("missing", func(t *testing.T) {
		h := NewContentHandler(&stubContentFlow{err: businessflow.ErrContentNotFound}, nil, zap.NewNop(), time.Second)
		app := fiber.New()
		app.Get("/api/content/:id", h.GetContent)

		resp, raw := doRequest(t, app, http.MethodGet, "/api/content/"+id, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "CONTENT_NOT_FOUND", decode(t, raw).Error.Code)
	})
}

func TestPostTweet_RateLimited(t *testing.T) {
	flowErr := businessflow.NewBusinessError("TWITTER_RATE_LIMITED", "rate limited", businessflow.ErrTwitterRateLimited)
	h := NewSocialHandler(&stubSocialFlow{err: flowErr}, zap.NewNop(), time.Second)
	app := fiber.New()
	app.Post("/api/social/twitter/post", h.PostTweet)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/social/twitter/post", `{"text":"hello"}`)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body := decode(t, raw)
	assert.Equal(t, "TWITTER_RATE_LIMITED", body.Error.Code)
	details, ok := body.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, details["rate_limited"])
}

func TestPostTweet_Disabled(t *testing.T) {
	h := NewSocialHandler(&stubSocialFlow{err: businessflow.ErrTwitterDisabled}, zap.NewNop(), time.Second)
	app := fiber.New()
	app.Post("/api/social/twitter/post", h.PostTweet)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/social/twitter/post", `{"text":"hello"}`)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSendWhatsApp_MissingFieldsReturnFlowMessage(t *testing.T) {
	h := NewSocialHandler(&stubSocialFlow{}, zap.NewNop(), time.Second)
	app := fiber.New()
	app.Post("/api/social/whatsapp/send", h.SendWhatsApp)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/social/whatsapp/send", `{"phone":"+15550100"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, raw)
	assert.Equal(t, "PHONE_AND_MESSAGE_REQUIRED", body.Error.Code)
	assert.Equal(t, "Phone number and message are required", body.Message)
}
