package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
	"github.com/lib/pq"
)

// WorkflowFlow hands ad video production off to the n8n form and records the result
type WorkflowFlow interface {
	AdVideoForm(ctx context.Context) (*dto.AdVideoFormResponse, error)
	AttachAdVideo(ctx context.Context, req *dto.AttachAdVideoRequest) (*dto.ContentRecordDTO, error)
}

// WorkflowFlowImpl implements the workflow business flow
type WorkflowFlowImpl struct {
	contentRepo repository.ContentRecordRepository
	cfg         *config.WorkflowConfig
}

// NewWorkflowFlow creates a new workflow flow instance
func NewWorkflowFlow(contentRepo repository.ContentRecordRepository, cfg *config.WorkflowConfig) WorkflowFlow {
	return &WorkflowFlowImpl{contentRepo: contentRepo, cfg: cfg}
}

func (f *WorkflowFlowImpl) AdVideoForm(ctx context.Context) (*dto.AdVideoFormResponse, error) {
	url := strings.TrimSpace(f.cfg.AdVideoFormURL)
	if url == "" {
		return nil, ErrWorkflowNotConfigured
	}
	return &dto.AdVideoFormResponse{FormURL: url}, nil
}

// AttachAdVideo stores the produced video as an ad content record
func (f *WorkflowFlowImpl) AttachAdVideo(ctx context.Context, req *dto.AttachAdVideoRequest) (*dto.ContentRecordDTO, error) {
	videoURL := strings.TrimSpace(req.VideoURL)
	record := &models.ContentRecord{
		Type:      models.ContentTypeAd,
		Prompt:    strings.TrimSpace(req.Prompt),
		Body:      videoURL,
		ImageRef:  &videoURL,
		Platforms: pq.StringArray{},
	}
	if err := f.contentRepo.Save(ctx, record); err != nil {
		return nil, NewBusinessError("CONTENT_SAVE_FAILED", "Failed to save ad video", err)
	}

	out := ToContentRecordDTO(*record)
	return &out, nil
}
