// Package services provides external service integrations: hosted models, email delivery, storage and social APIs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amirphl/reachbee/config"
)

// TextGenerator produces raw model text for a fully templated prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces image bytes for a prompt
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error)
}

// ImageRequest carries the text-to-image parameters
type ImageRequest struct {
	Prompt            string
	NegativePrompt    string
	GuidanceScale     float64
	NumInferenceSteps int
}

// GeneratedImage is the binary body returned by the image model
type GeneratedImage struct {
	Data        []byte
	ContentType string
	Model       string
}

// HuggingFaceClient calls the Hugging Face hosted inference API
type HuggingFaceClient struct {
	config *config.InferenceConfig
	client *http.Client
}

type hfTextRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters hfTextParameters `json:"parameters"`
}

type hfTextParameters struct {
	MaxNewTokens int `json:"max_new_tokens,omitempty"`
}

type hfTextResult struct {
	GeneratedText string `json:"generated_text"`
}

type hfImageRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters hfImageParameters `json:"parameters"`
}

type hfImageParameters struct {
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
}

type hfErrorResponse struct {
	Error string `json:"error"`
}

// NewHuggingFaceClient creates a Hugging Face inference client
func NewHuggingFaceClient(cfg *config.InferenceConfig) *HuggingFaceClient {
	return &HuggingFaceClient{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GenerateText returns generated_text of the first result, untouched
func (h *HuggingFaceClient) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	defer func() { observeUpstream("huggingface_text", err) }()

	body, err := json.Marshal(hfTextRequest{
		Inputs:     prompt,
		Parameters: hfTextParameters{MaxNewTokens: h.config.MaxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal text request: %w", err)
	}

	respBody, _, err := h.post(ctx, h.config.TextModelURL, body, "application/json")
	if err != nil {
		return "", err
	}

	var results []hfTextResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return "", fmt.Errorf("failed to decode text response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("text model returned no results")
	}
	return results[0].GeneratedText, nil
}

// GenerateImage returns the binary image produced by the image model
func (h *HuggingFaceClient) GenerateImage(ctx context.Context, req ImageRequest) (img *GeneratedImage, err error) {
	defer func() { observeUpstream("huggingface_image", err) }()

	body, err := json.Marshal(hfImageRequest{
		Inputs: req.Prompt,
		Parameters: hfImageParameters{
			NegativePrompt:    req.NegativePrompt,
			GuidanceScale:     req.GuidanceScale,
			NumInferenceSteps: req.NumInferenceSteps,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	respBody, contentType, err := h.post(ctx, h.config.ImageModelURL, body, "image/*")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("image model returned %q instead of an image", contentType)
	}

	return &GeneratedImage{
		Data:        respBody,
		ContentType: contentType,
		Model:       h.config.ImageModelName,
	}, nil
}

func (h *HuggingFaceClient) post(ctx context.Context, url string, body []byte, accept string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+h.config.HuggingFaceAPIKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, "", fmt.Errorf("inference API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, "", fmt.Errorf("inference API error (%d)", resp.StatusCode)
	}

	return respBody, resp.Header.Get("Content-Type"), nil
}

// MockTextGenerator implements TextGenerator for testing
type MockTextGenerator struct {
	Response string
	Err      error
	Prompts  []string
}

// GenerateText records the prompt and returns the canned response
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockImageGenerator implements ImageGenerator for testing
type MockImageGenerator struct {
	Image    *GeneratedImage
	Err      error
	Requests []ImageRequest
}

// GenerateImage records the request and returns the canned image
func (m *MockImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}
