package application

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(42, "log.txt")
	assert.Regexp(t, regexp.MustCompile(`^tickets/42/[0-9a-f-]{36}-log\.txt$`), key)
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "a.png", cleanFileName("../../a.png"))
	assert.Equal(t, "b.txt", cleanFileName(`C:\Users\me\b.txt`))
	assert.Equal(t, "", cleanFileName(".."))
	assert.Equal(t, "", cleanFileName("  "))
}

func TestListAttachments_ResolvesURLs(t *testing.T) {
	svcs, m := setupServices(t)
	m.Ticket.EXPECT().Exists(uint(5)).Return(true, nil)
	m.Attachment.EXPECT().ListByTicket(uint(5)).Return([]ticket.Attachment{
		{ID: 1, TicketID: 5, FileName: "a.png", FileURL: "tickets/5/x-a.png"},
		{ID: 2, TicketID: 5, FileName: "b.pdf", FileURL: "tickets/5/y-b.pdf"},
	}, nil)
	m.Store.EXPECT().PublicURL(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) (string, error) {
		return "http://files/attachments/" + key, nil
	}).Times(2)

	atts, err := svcs.Attachment.ListAttachments(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "http://files/attachments/tickets/5/x-a.png", atts[0].PublicURL)
	assert.Equal(t, "http://files/attachments/tickets/5/y-b.pdf", atts[1].PublicURL)
}

func TestListAttachments_AnyResolutionFailureFails(t *testing.T) {
	svcs, m := setupServices(t)
	m.Ticket.EXPECT().Exists(uint(5)).Return(true, nil)
	m.Attachment.EXPECT().ListByTicket(uint(5)).Return([]ticket.Attachment{
		{ID: 1, FileURL: "ok"},
		{ID: 2, FileURL: "bad"},
	}, nil)
	m.Store.EXPECT().PublicURL(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) (string, error) {
		if key == "bad" {
			return "", errors.New("unreachable")
		}
		return "http://files/" + key, nil
	}).AnyTimes()

	_, err := svcs.Attachment.ListAttachments(context.Background(), 5)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestListAttachments_EmptyTicket(t *testing.T) {
	svcs, m := setupServices(t)
	m.Ticket.EXPECT().Exists(uint(5)).Return(true, nil)
	m.Attachment.EXPECT().ListByTicket(uint(5)).Return(nil, nil)

	atts, err := svcs.Attachment.ListAttachments(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, atts)
	assert.Empty(t, atts)
}

func TestListAttachments_TicketMissing(t *testing.T) {
	svcs, m := setupServices(t)
	m.Ticket.EXPECT().Exists(uint(5)).Return(false, nil)

	_, err := svcs.Attachment.ListAttachments(context.Background(), 5)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestUploadAttachment_Success(t *testing.T) {
	svcs, m := setupServices(t)
	ctx := context.Background()
	m.Ticket.EXPECT().Exists(uint(5)).Return(true, nil)

	var storedKey string
	m.Store.EXPECT().Put(ctx, gomock.Any(), "text/plain", gomock.Any(), int64(5)).
		DoAndReturn(func(_ context.Context, key, _ string, _ io.Reader, _ int64) error {
			storedKey = key
			return nil
		})
	m.Attachment.EXPECT().Create(gomock.Any()).DoAndReturn(func(a *ticket.Attachment) error {
		assert.Equal(t, "notes.txt", a.FileName)
		assert.Equal(t, storedKey, a.FileURL)
		a.ID = 3
		return nil
	})
	m.Store.EXPECT().PublicURL(ctx, gomock.Any()).Return("http://files/x", nil)
	m.Audit.EXPECT().CreateAuditLog(auditAction(audit.ActionUpload)).Return(nil)

	att, err := svcs.Attachment.UploadAttachment(ctx, actor, 5, UploadInput{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Size:        5,
		Body:        strings.NewReader("hello"),
	}, RequestMeta{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(att.FileURL, "tickets/5/"))
	assert.Equal(t, "http://files/x", att.PublicURL)
}

func TestUploadAttachment_RowFailureRemovesObject(t *testing.T) {
	svcs, m := setupServices(t)
	ctx := context.Background()
	m.Ticket.EXPECT().Exists(uint(5)).Return(true, nil)
	m.Store.EXPECT().Put(ctx, gomock.Any(), "application/octet-stream", gomock.Any(), int64(5)).Return(nil)
	m.Attachment.EXPECT().Create(gomock.Any()).Return(errors.New("insert failed"))
	m.Store.EXPECT().Remove(ctx, gomock.Any()).Return(nil)

	_, err := svcs.Attachment.UploadAttachment(ctx, actor, 5, UploadInput{
		FileName: "notes.txt",
		Size:     5,
		Body:     strings.NewReader("hello"),
	}, RequestMeta{})
	assert.Error(t, err)
}

func TestUploadAttachment_Validation(t *testing.T) {
	svcs, _ := setupServices(t)
	ctx := context.Background()

	_, err := svcs.Attachment.UploadAttachment(ctx, actor, 5, UploadInput{FileName: "a.txt", Size: 0}, RequestMeta{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svcs.Attachment.UploadAttachment(ctx, actor, 5, UploadInput{FileName: "a.txt", Size: 4096}, RequestMeta{})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svcs.Attachment.UploadAttachment(ctx, actor, 5, UploadInput{FileName: "..", Size: 1}, RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidFileName)
}
