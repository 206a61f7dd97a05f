package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/storage"
	"github.com/linskybing/csdesk/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// UploadInput describes a single file received from a form or API call.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type AttachmentService struct {
	Repos    *repository.Repos
	Store    storage.ObjectStore
	MaxBytes int64
}

func NewAttachmentService(repos *repository.Repos, store storage.ObjectStore, maxBytes int64) *AttachmentService {
	return &AttachmentService{
		Repos:    repos,
		Store:    store,
		MaxBytes: maxBytes,
	}
}

// ObjectKey is where an uploaded file is stored.
func ObjectKey(ticketID uint, fileName string) string {
	return fmt.Sprintf("tickets/%d/%s-%s", ticketID, uuid.NewString(), fileName)
}

func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// ListAttachments returns the ticket's attachments with public URLs resolved.
// URLs are resolved concurrently and any failure fails the whole call.
func (s *AttachmentService) ListAttachments(ctx context.Context, ticketID uint) ([]ticket.Attachment, error) {
	exists, err := s.Repos.Ticket.Exists(ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTicketNotFound
	}

	atts, err := s.Repos.Attachment.ListByTicket(ticketID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range atts {
		g.Go(func() error {
			u, err := s.Store.PublicURL(gctx, atts[i].FileURL)
			if err != nil {
				return fmt.Errorf("resolve url for %q: %w", atts[i].FileURL, err)
			}
			atts[i].PublicURL = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("attachment url resolution failed", "error", err, "ticket_id", ticketID)
		return nil, ErrStorageFailure
	}
	if atts == nil {
		atts = []ticket.Attachment{}
	}
	return atts, nil
}

// UploadAttachment stores the payload and records it against the ticket. The
// object is removed again if the row cannot be written.
func (s *AttachmentService) UploadAttachment(ctx context.Context, actor user.User, ticketID uint, in UploadInput, meta RequestMeta) (ticket.Attachment, error) {
	name := cleanFileName(in.FileName)
	if name == "" {
		return ticket.Attachment{}, ErrInvalidFileName
	}
	if in.Size <= 0 {
		return ticket.Attachment{}, ErrEmptyFile
	}
	if s.MaxBytes > 0 && in.Size > s.MaxBytes {
		return ticket.Attachment{}, ErrFileTooLarge
	}

	exists, err := s.Repos.Ticket.Exists(ticketID)
	if err != nil {
		return ticket.Attachment{}, err
	}
	if !exists {
		return ticket.Attachment{}, ErrTicketNotFound
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := ObjectKey(ticketID, name)
	if err := s.Store.Put(ctx, key, contentType, in.Body, in.Size); err != nil {
		slog.Error("attachment upload failed", "error", err, "key", key)
		return ticket.Attachment{}, ErrStorageFailure
	}

	att := ticket.Attachment{
		TicketID: ticketID,
		FileName: name,
		FileURL:  key,
	}
	if err := s.Repos.Attachment.Create(&att); err != nil {
		if rmErr := s.Store.Remove(ctx, key); rmErr != nil {
			slog.Warn("failed to remove orphaned object", "error", rmErr, "key", key)
		}
		return ticket.Attachment{}, err
	}

	if u, err := s.Store.PublicURL(ctx, key); err == nil {
		att.PublicURL = u
	} else {
		slog.Warn("attachment url resolution failed", "error", err, "key", key)
	}

	utils.LogAuditBestEffort(s.Repos.Audit, utils.AuditEntry{
		UserID:    actor.ID,
		Action:    audit.ActionUpload,
		Details:   fmt.Sprintf("Uploaded %s to ticket #%d", name, ticketID),
		Metadata:  map[string]any{"ticket_id": ticketID, "attachment_id": att.ID, "key": key, "size": in.Size},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return att, nil
}
