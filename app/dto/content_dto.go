package dto

import "time"

// GenerateContentRequest represents a text generation request
type GenerateContentRequest struct {
	Prompt      string   `json:"prompt" validate:"required,max=4000"`
	ContentType string   `json:"contentType" validate:"omitempty,max=64"`
	Platforms   []string `json:"platforms,omitempty" validate:"omitempty,dive,max=32"`
}

// ContentMetadata describes how a piece of content was generated
type ContentMetadata struct {
	ContentType string   `json:"contentType"`
	Platforms   []string `json:"platforms"`
	GeneratedAt string   `json:"generatedAt"`
}

// GenerateContentResponse carries generated text
type GenerateContentResponse struct {
	Content  string          `json:"content"`
	Metadata ContentMetadata `json:"metadata"`
}

// GenerateImageRequest represents an image generation request
type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

// ImageMetadata describes a generated image
type ImageMetadata struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	GeneratedAt string `json:"generatedAt"`
}

// GenerateImageResponse carries a base64 data URL
type GenerateImageResponse struct {
	ImageData string        `json:"imageData"`
	Metadata  ImageMetadata `json:"metadata"`
}

// VideoScriptOptions tunes the video script template
type VideoScriptOptions struct {
	Tone   string `json:"tone,omitempty" validate:"omitempty,max=64"`
	Length string `json:"length,omitempty" validate:"omitempty,max=32"`
}

// GenerateVideoScriptRequest represents a video script request
type GenerateVideoScriptRequest struct {
	Prompt          string             `json:"prompt" validate:"required,max=4000"`
	AdvancedOptions VideoScriptOptions `json:"advancedOptions"`
}

// VideoScriptMetadata describes a generated script
type VideoScriptMetadata struct {
	Tone              string `json:"tone"`
	Length            string `json:"length"`
	EstimatedDuration string `json:"estimatedDuration"`
	GeneratedAt       string `json:"generatedAt"`
}

// GenerateVideoScriptResponse carries a generated script
type GenerateVideoScriptResponse struct {
	Content  string              `json:"content"`
	Metadata VideoScriptMetadata `json:"metadata"`
}

// SaveContentRequest persists a piece of content chosen by the user
type SaveContentRequest struct {
	Type      string   `json:"type" validate:"required,oneof=social email video ad"`
	Prompt    string   `json:"prompt" validate:"max=4000"`
	Content   string   `json:"content" validate:"required"`
	ImageRef  *string  `json:"imageRef,omitempty"`
	Platforms []string `json:"platforms,omitempty" validate:"omitempty,dive,max=32"`
}

// ContentRecordDTO is the API view of a saved content record
type ContentRecordDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	ImageRef  *string   `json:"imageRef,omitempty"`
	Platforms []string  `json:"platforms"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListContentRequest filters saved content
type ListContentRequest struct {
	Type   string `query:"type" validate:"omitempty,oneof=social email video ad"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// ListContentResponse is one page of saved content
type ListContentResponse struct {
	Items []ContentRecordDTO `json:"items"`
	Total int64              `json:"total"`
}
