package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestSESEmailSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := newSESEmailSender(api, "noreply@example.com", "Reachbee")
	to := gofakeit.Email()

	id, err := sender.Send(context.Background(), EmailMessage{To: to, Subject: "Launch", HTMLBody: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "Reachbee <noreply@example.com>", aws.ToString(in.Source))
	assert.Equal(t, []string{to}, in.Destination.ToAddresses)
	assert.Equal(t, "Launch", aws.ToString(in.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(in.Message.Body.Html.Data))
	assert.Nil(t, in.Message.Body.Text)
}

func TestSESEmailSender_SendError(t *testing.T) {
	sender := newSESEmailSender(&fakeSES{err: errors.New("MessageRejected")}, "noreply@example.com", "")
	_, err := sender.Send(context.Background(), EmailMessage{To: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a@example.com")
}

func TestMockEmailSender(t *testing.T) {
	m := NewMockEmailSender()
	m.FailFor["bad@example.com"] = errors.New("bounce")

	_, err := m.Send(context.Background(), EmailMessage{To: "good@example.com"})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), EmailMessage{To: "bad@example.com"})
	require.Error(t, err)
	assert.Len(t, m.Sent, 1)
}

func TestS3ImageStore_Put(t *testing.T) {
	api := &fakeS3{}
	store := newS3ImageStore(api, "bucket", "https://cdn.example.com/")

	obj, err := store.Put(context.Background(), "images/a.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/a.png", obj.URL)
	assert.Equal(t, int64(3), obj.Size)

	require.Len(t, api.inputs, 1)
	assert.Equal(t, "bucket", aws.ToString(api.inputs[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.inputs[0].ContentType))

	store = newS3ImageStore(&fakeS3{err: errors.New("AccessDenied")}, "bucket", "https://cdn.example.com")
	_, err = store.Put(context.Background(), "k", nil, "image/png")
	assert.Error(t, err)
}
