package businessflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
	"github.com/amirphl/reachbee/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	defaultContentType = "social"
	defaultVideoTone   = "professional"
	defaultVideoLength = "medium"

	imageNegativePrompt    = "blurry, distorted, low quality, duplicate"
	imageGuidanceScale     = 7.5
	imageInferenceSteps    = 30
	defaultContentPageSize = 20
)

var (
	instructionPrefix = regexp.MustCompile(`(?s)^.*?\[/INST\]\s*`)
	sentenceMarkers   = regexp.MustCompile(`</?s>`)
	strayInstruction  = regexp.MustCompile(`[ \t]*\[/?INST\][ \t]*`)
)

// ContentFlow handles text, image and video script generation and saved content
type ContentFlow interface {
	GenerateContent(ctx context.Context, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error)
	GenerateImage(ctx context.Context, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	GenerateVideoScript(ctx context.Context, req *dto.GenerateVideoScriptRequest) (*dto.GenerateVideoScriptResponse, error)
	SaveContent(ctx context.Context, req *dto.SaveContentRequest) (*dto.ContentRecordDTO, error)
	ListContent(ctx context.Context, req *dto.ListContentRequest) (*dto.ListContentResponse, error)
	GetContent(ctx context.Context, id string) (*dto.ContentRecordDTO, error)
}

// ContentFlowImpl implements the content business flow
type ContentFlowImpl struct {
	text        services.TextGenerator
	images      services.ImageGenerator
	contentRepo repository.ContentRecordRepository
	inference   *config.InferenceConfig
	now         func() time.Time
}

// NewContentFlow creates a new content flow instance
func NewContentFlow(
	text services.TextGenerator,
	images services.ImageGenerator,
	contentRepo repository.ContentRecordRepository,
	inference *config.InferenceConfig,
) ContentFlow {
	return &ContentFlowImpl{
		text:        text,
		images:      images,
		contentRepo: contentRepo,
		inference:   inference,
		now:         utils.UTCNow,
	}
}

// instructionPrompt wraps a request in the instruction template of the text model
func instructionPrompt(body string) string {
	return "<s>[INST] " + body + " [/INST]</s>"
}

// stripInstruction removes the echoed instruction and sentence markers from model output
func stripInstruction(generated string) string {
	out := instructionPrefix.ReplaceAllString(generated, "")
	out = sentenceMarkers.ReplaceAllString(out, "")
	out = strayInstruction.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// estimatedDuration maps a script length label to a human duration
func estimatedDuration(length string) string {
	switch length {
	case "short":
		return "1-2 minutes"
	case "medium":
		return "2-5 minutes"
	default:
		return "5+ minutes"
	}
}

// GenerateContent generates platform copy for a prompt
func (f *ContentFlowImpl) GenerateContent(ctx context.Context, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	generated, err := f.text.GenerateText(ctx, instructionPrompt(
		fmt.Sprintf("Generate %s content for the following prompt:\n%s", contentType, prompt),
	))
	if err != nil {
		return nil, NewBusinessError("CONTENT_GENERATION_FAILED", "Failed to generate content", err)
	}

	platforms := req.Platforms
	if platforms == nil {
		platforms = []string{}
	}

	return &dto.GenerateContentResponse{
		Content: stripInstruction(generated),
		Metadata: dto.ContentMetadata{
			ContentType: contentType,
			Platforms:   platforms,
			GeneratedAt: f.now().Format(time.RFC3339),
		},
	}, nil
}

// GenerateImage generates an image and returns it as a JPEG data URL
func (f *ContentFlowImpl) GenerateImage(ctx context.Context, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	dataURL, model, err := generateJPEG(ctx, f.images, prompt, 0)
	if err != nil {
		return nil, NewBusinessError("IMAGE_GENERATION_FAILED", "Failed to generate image", err)
	}

	return &dto.GenerateImageResponse{
		ImageData: dataURL,
		Metadata: dto.ImageMetadata{
			Model:       model,
			Prompt:      prompt,
			GeneratedAt: f.now().Format(time.RFC3339),
		},
	}, nil
}

// generateJPEG runs the image model with the house parameters and returns a JPEG data URL and the model name
func generateJPEG(ctx context.Context, images services.ImageGenerator, prompt string, maxDim int) (string, string, error) {
	img, err := images.GenerateImage(ctx, services.ImageRequest{
		Prompt:            prompt,
		NegativePrompt:    imageNegativePrompt,
		GuidanceScale:     imageGuidanceScale,
		NumInferenceSteps: imageInferenceSteps,
	})
	if err != nil {
		return "", "", err
	}

	jpg, err := encodeJPEG(img.Data, maxDim)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s image: %w", img.ContentType, err)
	}
	return jpegDataURL(jpg), img.Model, nil
}

// GenerateVideoScript writes a structured video script
func (f *ContentFlowImpl) GenerateVideoScript(ctx context.Context, req *dto.GenerateVideoScriptRequest) (*dto.GenerateVideoScriptResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	tone := req.AdvancedOptions.Tone
	if tone == "" {
		tone = defaultVideoTone
	}
	length := req.AdvancedOptions.Length
	if length == "" {
		length = defaultVideoLength
	}

	body := fmt.Sprintf("Write a professional video script that is %s in length and uses a %s tone. The script should be for: %s\n\n"+
		"Format the response as a proper video script with:\n"+
		"- Timestamps for each section\n"+
		"- Camera directions in [brackets]\n"+
		"- Scene descriptions and transitions\n"+
		"- Clear sections for Opening, Introduction, Main Content, and Closing", length, tone, prompt)

	generated, err := f.text.GenerateText(ctx, instructionPrompt(body))
	if err != nil {
		return nil, NewBusinessError("VIDEO_SCRIPT_GENERATION_FAILED", "Failed to generate video script", err)
	}

	return &dto.GenerateVideoScriptResponse{
		Content: stripInstruction(generated),
		Metadata: dto.VideoScriptMetadata{
			Tone:              tone,
			Length:            length,
			EstimatedDuration: estimatedDuration(length),
			GeneratedAt:       f.now().Format(time.RFC3339),
		},
	}, nil
}

// SaveContent persists a content record
func (f *ContentFlowImpl) SaveContent(ctx context.Context, req *dto.SaveContentRequest) (*dto.ContentRecordDTO, error) {
	contentType := models.ContentType(req.Type)
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}

	record := &models.ContentRecord{
		Type:      contentType,
		Prompt:    req.Prompt,
		Body:      req.Content,
		ImageRef:  req.ImageRef,
		Platforms: pq.StringArray(req.Platforms),
		CreatedAt: f.now(),
	}
	if err := f.contentRepo.Save(ctx, record); err != nil {
		return nil, NewBusinessError("CONTENT_SAVE_FAILED", "Failed to save content", err)
	}

	out := ToContentRecordDTO(*record)
	return &out, nil
}

// ListContent returns saved content, newest first
func (f *ContentFlowImpl) ListContent(ctx context.Context, req *dto.ListContentRequest) (*dto.ListContentResponse, error) {
	filter := models.ContentRecordFilter{}
	if req.Type != "" {
		contentType := models.ContentType(req.Type)
		if !contentType.Valid() {
			return nil, ErrInvalidContentType
		}
		filter.Type = &contentType
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultContentPageSize
	}

	rows, err := f.contentRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("CONTENT_LIST_FAILED", "Failed to list content", err)
	}
	total, err := f.contentRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONTENT_LIST_FAILED", "Failed to count content", err)
	}

	items := make([]dto.ContentRecordDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToContentRecordDTO(*r))
	}
	return &dto.ListContentResponse{Items: items, Total: total}, nil
}

// GetContent returns one saved content record by its public id
func (f *ContentFlowImpl) GetContent(ctx context.Context, id string) (*dto.ContentRecordDTO, error) {
	contentID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrContentNotFound
	}
	record, err := f.contentRepo.ByUUID(ctx, contentID)
	if err != nil {
		return nil, NewBusinessError("CONTENT_LOOKUP_FAILED", "Failed to lookup content", err)
	}
	if record == nil {
		return nil, ErrContentNotFound
	}
	out := ToContentRecordDTO(*record)
	return &out, nil
}
