package application

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/pkg/markdown"
	"github.com/linskybing/csdesk/pkg/utils"
)

// RenderedComment is a comment plus its sanitized HTML body.
type RenderedComment struct {
	ticket.Comment
	HTML string `json:"html"`
}

type CommentService struct {
	Repos    *repository.Repos
	Profiles *ProfileService
	Renderer *markdown.Renderer
}

func NewCommentService(repos *repository.Repos, profiles *ProfileService, renderer *markdown.Renderer) *CommentService {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	return &CommentService{
		Repos:    repos,
		Profiles: profiles,
		Renderer: renderer,
	}
}

// AddComment resolves the author from the session and appends a comment to
// the ticket.
func (s *CommentService) AddComment(sess identity.Session, ticketID uint, input ticket.CreateCommentDTO, meta RequestMeta) (ticket.Comment, error) {
	body := strings.TrimSpace(input.Comment)
	if body == "" {
		return ticket.Comment{}, ErrEmptyComment
	}

	author, err := s.Profiles.LoadProfile(sess.UserID)
	if err != nil {
		return ticket.Comment{}, err
	}

	exists, err := s.Repos.Ticket.Exists(ticketID)
	if err != nil {
		return ticket.Comment{}, err
	}
	if !exists {
		return ticket.Comment{}, ErrTicketNotFound
	}

	c := ticket.Comment{
		TicketID:   ticketID,
		UserID:     author.ID,
		Comment:    body,
		IsInternal: input.IsInternal,
	}
	if err := s.Repos.Comment.Create(&c); err != nil {
		return ticket.Comment{}, err
	}
	c.Author = author

	utils.LogAuditBestEffort(s.Repos.Audit, utils.AuditEntry{
		UserID:    author.ID,
		Action:    audit.ActionAddComment,
		Details:   fmt.Sprintf("Commented on ticket #%d", ticketID),
		Metadata:  map[string]any{"ticket_id": ticketID, "comment_id": c.ID, "is_internal": c.IsInternal},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return c, nil
}

// ListComments returns the ticket's comments oldest first with rendered bodies.
func (s *CommentService) ListComments(ticketID uint) ([]RenderedComment, error) {
	exists, err := s.Repos.Ticket.Exists(ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTicketNotFound
	}

	comments, err := s.Repos.Comment.ListByTicket(ticketID)
	if err != nil {
		return nil, err
	}

	out := make([]RenderedComment, 0, len(comments))
	for _, c := range comments {
		html, err := s.Renderer.ToHTML(c.Comment)
		if err != nil {
			slog.Warn("comment render failed", "error", err, "comment_id", c.ID)
			html = ""
		}
		out = append(out, RenderedComment{Comment: c, HTML: html})
	}
	return out, nil
}
