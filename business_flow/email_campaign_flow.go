package businessflow

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
	"github.com/amirphl/reachbee/utils"
)

// EmailCampaignFlow handles email drafting, sending and open analytics
type EmailCampaignFlow interface {
	PreviewEmail(ctx context.Context, req *dto.EmailPreviewRequest) (*dto.EmailPreviewResponse, error)
	CreateCampaign(ctx context.Context, req *dto.CreateEmailCampaignRequest, metadata *ClientMetadata) (*dto.CreateEmailCampaignResponse, error)
	GetAnalytics(ctx context.Context, trackingID string) (*dto.EmailAnalyticsDTO, error)
	ListAnalytics(ctx context.Context) (*dto.ListEmailAnalyticsResponse, error)
	ExportOpens(ctx context.Context, trackingID string) (string, []byte, error)
}

// EmailCampaignFlowImpl implements the email campaign business flow
type EmailCampaignFlowImpl struct {
	text     services.TextGenerator
	sender   services.EmailSender
	repo     repository.EmailTrackingRepository
	emailCfg *config.EmailConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewEmailCampaignFlow creates a new email campaign flow instance
func NewEmailCampaignFlow(
	text services.TextGenerator,
	sender services.EmailSender,
	repo repository.EmailTrackingRepository,
	emailCfg *config.EmailConfig,
	logger *zap.Logger,
) EmailCampaignFlow {
	return &EmailCampaignFlowImpl{
		text:     text,
		sender:   sender,
		repo:     repo,
		emailCfg: emailCfg,
		logger:   logger,
		now:      utils.UTCNow,
	}
}

func emailPrompt(campaignType, prompt string) string {
	return fmt.Sprintf("Create a %s email with the following requirements: %s", campaignType, prompt)
}

// TrackingPixelURL is the pixel address embedded in a campaign email
func TrackingPixelURL(baseURL string, trackingID uuid.UUID) string {
	return fmt.Sprintf("%s/api/email/%s/track", strings.TrimRight(baseURL, "/"), trackingID.String())
}

// injectTrackingPixel places the pixel right before </body>, or appends it when the document has none
func injectTrackingPixel(doc, pixelURL string) string {
	img := fmt.Sprintf(`<img src="%s" width="1" height="1" alt="" style="display:none;border:0;" />`, html.EscapeString(pixelURL))
	if i := strings.LastIndex(strings.ToLower(doc), "</body>"); i >= 0 {
		return doc[:i] + img + doc[i:]
	}
	return doc + img
}

// asHTMLDocument keeps model output that is already HTML and wraps plain text otherwise
func asHTMLDocument(content string) string {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<body") {
		return content
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"UTF-8\"></head><body>")
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		sb.WriteString("</p>")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// PreviewEmail drafts an email without sending or storing anything
func (f *EmailCampaignFlowImpl) PreviewEmail(ctx context.Context, req *dto.EmailPreviewRequest) (*dto.EmailPreviewResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	generated, err := f.text.GenerateText(ctx, instructionPrompt(emailPrompt(req.CampaignType, prompt)))
	if err != nil {
		return nil, NewBusinessError("EMAIL_GENERATION_FAILED", "Failed to generate email content", err)
	}

	return &dto.EmailPreviewResponse{
		Content:       stripInstruction(generated),
		AllowedEmails: append([]string{}, f.emailCfg.AllowedRecipients...),
	}, nil
}

// resolveRecipients defaults to the allow-list and rejects anything outside it
func (f *EmailCampaignFlowImpl) resolveRecipients(requested []string) ([]string, error) {
	if len(requested) == 0 {
		if len(f.emailCfg.AllowedRecipients) == 0 {
			return nil, ErrNoRecipients
		}
		return append([]string{}, f.emailCfg.AllowedRecipients...), nil
	}

	seen := make(map[string]bool, len(requested))
	out := make([]string, 0, len(requested))
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if !utils.ContainsFold(f.emailCfg.AllowedRecipients, r) {
			return nil, NewBusinessErrorf("RECIPIENT_NOT_ALLOWED", "Recipient %s is not allowed", ErrRecipientNotAllowed, r)
		}
		key := strings.ToLower(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out, nil
}

// CreateCampaign generates the email, stores its tracking record and sends it to every recipient
func (f *EmailCampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateEmailCampaignRequest, metadata *ClientMetadata) (*dto.CreateEmailCampaignResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	recipients, err := f.resolveRecipients(req.Recipients)
	if err != nil {
		return nil, err
	}

	generated, err := f.text.GenerateText(ctx, instructionPrompt(emailPrompt(req.CampaignType, prompt)))
	if err != nil {
		return nil, NewBusinessError("EMAIL_GENERATION_FAILED", "Failed to generate email content", err)
	}
	content := stripInstruction(generated)

	trackingID := uuid.New()
	htmlBody := injectTrackingPixel(asHTMLDocument(content), TrackingPixelURL(f.emailCfg.TrackingBaseURL, trackingID))
	sentAt := f.now()

	record := &models.EmailTracking{
		TrackingID:   trackingID,
		Subject:      req.Subject,
		CampaignType: req.CampaignType,
		Recipients:   pq.StringArray(recipients),
		Opens:        0,
		OpenedBy:     pq.StringArray{},
		HTML:         htmlBody,
		SentAt:       &sentAt,
	}
	if err := f.repo.Save(ctx, record); err != nil {
		return nil, NewBusinessError("EMAIL_TRACKING_CREATE_FAILED", "Failed to create tracking record", err)
	}

	failed := make([]dto.FailedRecipient, 0)
	for _, to := range recipients {
		_, err := f.sender.Send(ctx, services.EmailMessage{
			To:       to,
			Subject:  req.Subject,
			HTMLBody: htmlBody,
			TextBody: content,
		})
		if err != nil {
			f.logger.Warn("Email send failed",
				zap.String("tracking_id", trackingID.String()),
				zap.String("recipient", to),
				zap.Error(err),
			)
			failed = append(failed, dto.FailedRecipient{Email: to, Error: "delivery failed"})
		}
	}

	sentCount := len(recipients) - len(failed)
	if sentCount == 0 {
		// nothing was delivered so no pixel can ever be fetched for this record
		if err := f.repo.DeleteByTrackingID(ctx, trackingID); err != nil {
			f.logger.Error("Failed to remove undelivered tracking record",
				zap.String("tracking_id", trackingID.String()),
				zap.Error(err),
			)
		}
		return nil, NewBusinessError("EMAIL_SEND_FAILED", "Failed to send email to any recipient", ErrAllSendsFailed)
	}

	fields := []zap.Field{
		zap.String("tracking_id", trackingID.String()),
		zap.Int("sent", sentCount),
		zap.Int("failed", len(failed)),
	}
	if metadata != nil {
		fields = append(fields, zap.String("request_id", metadata.RequestID))
	}
	f.logger.Info("Email campaign sent", fields...)

	return &dto.CreateEmailCampaignResponse{
		TrackingID: trackingID.String(),
		Subject:    req.Subject,
		Recipients: recipients,
		SentCount:  sentCount,
		Failed:     failed,
		SentAt:     sentAt,
	}, nil
}

func (f *EmailCampaignFlowImpl) lookup(ctx context.Context, trackingID string) (*models.EmailTracking, error) {
	id, err := uuid.Parse(strings.TrimSpace(trackingID))
	if err != nil {
		return nil, ErrTrackingNotFound
	}
	row, err := f.repo.ByTrackingID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("EMAIL_TRACKING_LOOKUP_FAILED", "Failed to lookup tracking record", err)
	}
	if row == nil {
		return nil, ErrTrackingNotFound
	}
	return row, nil
}

// GetAnalytics returns the tracking record of one campaign with its open rate
func (f *EmailCampaignFlowImpl) GetAnalytics(ctx context.Context, trackingID string) (*dto.EmailAnalyticsDTO, error) {
	row, err := f.lookup(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	out := ToEmailAnalyticsDTO(*row)
	return &out, nil
}

// ListAnalytics returns every tracked campaign, newest first
func (f *EmailCampaignFlowImpl) ListAnalytics(ctx context.Context) (*dto.ListEmailAnalyticsResponse, error) {
	rows, err := f.repo.ByFilter(ctx, models.EmailTrackingFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("EMAIL_ANALYTICS_FAILED", "Failed to list email analytics", err)
	}

	items := make([]dto.EmailAnalyticsDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToEmailAnalyticsDTO(*r))
	}
	return &dto.ListEmailAnalyticsResponse{Items: items}, nil
}

// ExportOpens builds a workbook with a summary sheet and one row per recorded open
func (f *EmailCampaignFlowImpl) ExportOpens(ctx context.Context, trackingID string) (string, []byte, error) {
	row, err := f.lookup(ctx, trackingID)
	if err != nil {
		return "", nil, err
	}

	events, err := f.repo.ListOpenEvents(ctx, row.TrackingID)
	if err != nil {
		return "", nil, NewBusinessError("EMAIL_OPENS_FETCH_FAILED", "Failed to fetch open events", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	summary := "summary"
	xl.SetSheetName(xl.GetSheetName(0), summary)
	summaryRows := [][]string{
		{"tracking_id", row.TrackingID.String()},
		{"subject", row.Subject},
		{"campaign_type", row.CampaignType},
		{"recipients", strconv.Itoa(len(row.Recipients))},
		{"opens", strconv.FormatInt(row.Opens, 10)},
		{"open_rate", OpenRate(row.Opens, len(row.Recipients))},
	}
	if err := writeSheetRows(xl, summary, 1, summaryRows); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	opens := "opens"
	if _, err := xl.NewSheet(opens); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	openRows := make([][]string, 0, len(events)+1)
	openRows = append(openRows, []string{"id", "opened_at", "ip", "user_agent"})
	for _, e := range events {
		openRows = append(openRows, []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.OpenedAt.UTC().Format(time.RFC3339),
			e.IP,
			utils.Deref(e.UserAgent),
		})
	}
	if err := writeSheetRows(xl, opens, 1, openRows); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("email_opens_%s.xlsx", row.TrackingID.String())
	return filename, buf.Bytes(), nil
}

// writeSheetRows writes rows to sheet starting at column A of firstRow
func writeSheetRows(xl *excelize.File, sheet string, firstRow int, rows [][]string) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, firstRow+i, err)
		}
	}
	return nil
}
