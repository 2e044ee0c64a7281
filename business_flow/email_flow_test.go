package businessflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/utils"
)

type emailFixture struct {
	flow    *EmailCampaignFlowImpl
	tracker EmailTrackingFlow
	repo    *fakeTrackingRepo
	sender  *services.MockEmailSender
	text    *services.MockTextGenerator
	allowed []string
}

func newEmailFixture(t *testing.T) *emailFixture {
	t.Helper()
	allowed := []string{gofakeit.Email(), gofakeit.Email(), gofakeit.Email()}
	repo := &fakeTrackingRepo{}
	sender := services.NewMockEmailSender()
	text := &services.MockTextGenerator{Response: "[INST] email [/INST] Hello team\n\nOur spring sale is live."}
	cfg := &config.EmailConfig{AllowedRecipients: allowed, TrackingBaseURL: "https://api.reachbee.test/"}

	flow := NewEmailCampaignFlow(text, sender, repo, cfg, zap.NewNop()).(*EmailCampaignFlowImpl)
	flow.now = func() time.Time { return fixedNow }
	return &emailFixture{
		flow:    flow,
		tracker: NewEmailTrackingFlow(repo),
		repo:    repo,
		sender:  sender,
		text:    text,
		allowed: allowed,
	}
}

func TestInjectTrackingPixel(t *testing.T) {
	pixel := "https://x.test/api/email/abc/track"

	withBody := injectTrackingPixel("<html><body><p>Hi</p></BODY></html>", pixel)
	assert.True(t, strings.HasSuffix(withBody, `style="display:none;border:0;" /></BODY></html>`))
	assert.Contains(t, withBody, `<img src="https://x.test/api/email/abc/track" width="1" height="1"`)

	noBody := injectTrackingPixel("<p>Hi</p>", pixel)
	assert.True(t, strings.HasPrefix(noBody, "<p>Hi</p><img "))
}

func TestAsHTMLDocument(t *testing.T) {
	doc := asHTMLDocument("Hello <team>\n\nLine one\nLine two")
	assert.Contains(t, doc, "<p>Hello &lt;team&gt;</p>")
	assert.Contains(t, doc, "<p>Line one<br>Line two</p>")
	assert.Contains(t, doc, "</body></html>")

	already := "<html><body>ready</body></html>"
	assert.Equal(t, already, asHTMLDocument(already))
}

func TestTrackingPixelURL(t *testing.T) {
	id := uuid.MustParse("6f1c1f34-8d0e-4d53-9a8b-2a4f0f6b1e11")
	assert.Equal(t, "https://api.test/api/email/6f1c1f34-8d0e-4d53-9a8b-2a4f0f6b1e11/track", TrackingPixelURL("https://api.test/", id))
}

func TestEmailCampaignFlow_PreviewEmail(t *testing.T) {
	fx := newEmailFixture(t)

	resp, err := fx.flow.PreviewEmail(context.Background(), &dto.EmailPreviewRequest{Prompt: "spring sale", CampaignType: "promotional"})
	require.NoError(t, err)
	assert.Equal(t, "Hello team\n\nOur spring sale is live.", resp.Content)
	assert.Equal(t, fx.allowed, resp.AllowedEmails)
	assert.Contains(t, fx.text.Prompts[0], "Create a promotional email with the following requirements: spring sale")
	assert.Empty(t, fx.repo.rows)
	assert.Empty(t, fx.sender.Sent)
}

func TestEmailCampaignFlow_CreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("sends to the whole allow-list by default", func(t *testing.T) {
		fx := newEmailFixture(t)

		resp, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "spring sale", Subject: "Spring", CampaignType: "promotional"}, NewClientMetadata("127.0.0.1", "test"))
		require.NoError(t, err)

		assert.Equal(t, fx.allowed, resp.Recipients)
		assert.Equal(t, 3, resp.SentCount)
		assert.Empty(t, resp.Failed)
		assert.Equal(t, fixedNow, resp.SentAt)

		require.Len(t, fx.repo.rows, 1)
		rec := fx.repo.rows[0]
		assert.Equal(t, resp.TrackingID, rec.TrackingID.String())
		assert.EqualValues(t, 0, rec.Opens)
		assert.Contains(t, rec.HTML, "https://api.reachbee.test/api/email/"+resp.TrackingID+"/track")

		require.Len(t, fx.sender.Sent, 3)
		for _, m := range fx.sender.Sent {
			assert.Equal(t, "Spring", m.Subject)
			assert.Equal(t, rec.HTML, m.HTMLBody)
		}
	})

	t.Run("rejects recipients outside the allow-list", func(t *testing.T) {
		fx := newEmailFixture(t)
		_, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{
			Prompt: "x", Subject: "s", CampaignType: "t",
			Recipients: []string{fx.allowed[0], "intruder@evil.test"},
		}, nil)
		assert.True(t, IsRecipientNotAllowed(err))
		assert.Empty(t, fx.repo.rows)
		assert.Empty(t, fx.sender.Sent)
	})

	t.Run("deduplicates requested recipients case-insensitively", func(t *testing.T) {
		fx := newEmailFixture(t)
		resp, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{
			Prompt: "x", Subject: "s", CampaignType: "t",
			Recipients: []string{fx.allowed[1], strings.ToUpper(fx.allowed[1])},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{fx.allowed[1]}, resp.Recipients)
		assert.Len(t, fx.sender.Sent, 1)
	})

	t.Run("partial failure is reported", func(t *testing.T) {
		fx := newEmailFixture(t)
		fx.sender.FailFor[fx.allowed[2]] = errors.New("mailbox unavailable")

		resp, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.SentCount)
		require.Len(t, resp.Failed, 1)
		assert.Equal(t, fx.allowed[2], resp.Failed[0].Email)
	})

	t.Run("all sends failing fails the call", func(t *testing.T) {
		fx := newEmailFixture(t)
		for _, a := range fx.allowed {
			fx.sender.FailFor[a] = errors.New("throttled")
		}

		_, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "EMAIL_SEND_FAILED", be.Code)
		assert.True(t, IsAllSendsFailed(err))

		assert.Empty(t, fx.repo.rows)
		list, err := fx.flow.ListAnalytics(ctx)
		require.NoError(t, err)
		assert.Empty(t, list.Items)
	})

	t.Run("cleanup failure keeps the send error", func(t *testing.T) {
		fx := newEmailFixture(t)
		fx.repo.deleteErr = errors.New("connection reset")
		for _, a := range fx.allowed {
			fx.sender.FailFor[a] = errors.New("throttled")
		}

		_, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
		assert.True(t, IsAllSendsFailed(err))
	})

	t.Run("empty allow-list", func(t *testing.T) {
		fx := newEmailFixture(t)
		fx.flow.emailCfg.AllowedRecipients = nil
		_, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
		assert.True(t, IsNoRecipients(err))
	})
}

func TestEmailTrackingFlow_TrackOpen(t *testing.T) {
	ctx := context.Background()
	fx := newEmailFixture(t)

	resp, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
	require.NoError(t, err)

	t.Run("unknown id creates nothing", func(t *testing.T) {
		err := fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: uuid.NewString(), IPAddress: "1.1.1.1"})
		assert.True(t, IsTrackingNotFound(err))
		assert.Empty(t, fx.repo.events)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		err := fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: "not-a-uuid"})
		assert.True(t, IsTrackingNotFound(err))
	})

	t.Run("concurrent opens are all counted", func(t *testing.T) {
		ips := []string{gofakeit.IPv4Address(), gofakeit.IPv4Address()}
		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: resp.TrackingID, IPAddress: ips[i%2], UserAgent: "Mail"}))
			}(i)
		}
		wg.Wait()

		analytics, err := fx.flow.GetAnalytics(ctx, resp.TrackingID)
		require.NoError(t, err)
		assert.EqualValues(t, n, analytics.Opens)
		assert.ElementsMatch(t, ips, analytics.OpenedBy)
		assert.NotNil(t, analytics.LastOpenedAt)
		assert.Equal(t, OpenRate(n, 3), analytics.OpenRate)
		assert.Len(t, fx.repo.events, n)
	})

	t.Run("empty ip is recorded as unknown", func(t *testing.T) {
		require.NoError(t, fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: resp.TrackingID}))
		last := fx.repo.events[len(fx.repo.events)-1]
		assert.Equal(t, utils.UnknownRequesterIP, last.IP)
		assert.Nil(t, last.UserAgent)
	})

	t.Run("opened_by compares addresses exactly", func(t *testing.T) {
		other, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "x", Subject: "s", CampaignType: "t"}, nil)
		require.NoError(t, err)

		for _, ip := range []string{"2001:DB8::1", "2001:db8::1", "2001:db8::1"} {
			require.NoError(t, fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: other.TrackingID, IPAddress: ip}))
		}

		analytics, err := fx.flow.GetAnalytics(ctx, other.TrackingID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, analytics.Opens)
		assert.Equal(t, []string{"2001:DB8::1", "2001:db8::1"}, analytics.OpenedBy)
	})

	t.Run("store failure", func(t *testing.T) {
		fx.repo.recordErr = errors.New("deadlock")
		defer func() { fx.repo.recordErr = nil }()
		err := fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: resp.TrackingID})
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "EMAIL_TRACK_FAILED", be.Code)
	})
}

func TestTransparentGIF(t *testing.T) {
	assert.Len(t, TransparentGIF, 42)
	assert.True(t, bytes.HasPrefix(TransparentGIF, []byte("GIF89a")))
	assert.True(t, bytes.HasSuffix(TransparentGIF, []byte{0x3b}), "GIF trailer")
	// logical screen width and height, little endian
	assert.Equal(t, []byte{1, 0, 1, 0}, TransparentGIF[6:10])
}

func TestWriteSheetRows(t *testing.T) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()
	sheet := xl.GetSheetName(0)

	require.NoError(t, writeSheetRows(xl, sheet, 1, [][]string{{"a", "b"}, {"c", "d"}}))
	rows, err := xl.GetRows(sheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)

	assert.Error(t, writeSheetRows(xl, "missing", 1, [][]string{{"a"}}))
	assert.Error(t, writeSheetRows(xl, sheet, 0, [][]string{{"a"}}))
}

func TestEmailCampaignFlow_Analytics(t *testing.T) {
	ctx := context.Background()
	fx := newEmailFixture(t)

	first, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "a", Subject: "first", CampaignType: "t"}, nil)
	require.NoError(t, err)
	second, err := fx.flow.CreateCampaign(ctx, &dto.CreateEmailCampaignRequest{Prompt: "b", Subject: "second", CampaignType: "t"}, nil)
	require.NoError(t, err)

	list, err := fx.flow.ListAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.TrackingID, list.Items[0].TrackingID)
	assert.Equal(t, "0.0%", list.Items[0].OpenRate)

	_, err = fx.flow.GetAnalytics(ctx, uuid.NewString())
	assert.True(t, IsTrackingNotFound(err))

	require.NoError(t, fx.tracker.TrackOpen(ctx, &dto.TrackOpenRequest{TrackingID: first.TrackingID, IPAddress: "10.0.0.1", UserAgent: "Thunderbird"}))

	name, data, err := fx.flow.ExportOpens(ctx, first.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, "email_opens_"+first.TrackingID+".xlsx", name)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("opens")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "opened_at", "ip", "user_agent"}, rows[0])
	assert.Equal(t, "10.0.0.1", rows[1][2])
	assert.Equal(t, "Thunderbird", rows[1][3])

	summary, err := xl.GetRows("summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"opens", "1"}, summary[4])
}

