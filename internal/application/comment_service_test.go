package application

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var sess = identity.Session{ID: "s1", UserID: "auth-1", Email: "jane@example.com"}

func TestAddComment_Success(t *testing.T) {
	svcs, m := setupServices(t)
	author := user.User{ID: 7, Name: "Jane", IsActive: true}
	m.User.EXPECT().GetUserByAuthID("auth-1").Return(author, nil)
	m.Ticket.EXPECT().Exists(uint(3)).Return(true, nil)
	m.Comment.EXPECT().Create(gomock.Any()).DoAndReturn(func(c *ticket.Comment) error {
		assert.Equal(t, uint(3), c.TicketID)
		assert.Equal(t, uint(7), c.UserID)
		assert.Equal(t, "Rebooted the router", c.Comment)
		assert.True(t, c.IsInternal)
		c.ID = 11
		return nil
	})
	m.Audit.EXPECT().CreateAuditLog(auditAction(audit.ActionAddComment)).Return(nil)

	c, err := svcs.Comment.AddComment(sess, 3, ticket.CreateCommentDTO{Comment: "  Rebooted the router ", IsInternal: true}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.Author.Name)
}

func TestAddComment_Empty(t *testing.T) {
	svcs, _ := setupServices(t)
	_, err := svcs.Comment.AddComment(sess, 3, ticket.CreateCommentDTO{Comment: "   "}, RequestMeta{})
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestAddComment_NoProfile(t *testing.T) {
	svcs, m := setupServices(t)
	m.User.EXPECT().GetUserByAuthID("auth-1").Return(user.User{}, gorm.ErrRecordNotFound)

	_, err := svcs.Comment.AddComment(sess, 3, ticket.CreateCommentDTO{Comment: "hi"}, RequestMeta{})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAddComment_TicketMissing(t *testing.T) {
	svcs, m := setupServices(t)
	m.User.EXPECT().GetUserByAuthID("auth-1").Return(user.User{ID: 7}, nil)
	m.Ticket.EXPECT().Exists(uint(3)).Return(false, nil)

	_, err := svcs.Comment.AddComment(sess, 3, ticket.CreateCommentDTO{Comment: "hi"}, RequestMeta{})
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestListComments_RendersSanitizedMarkdown(t *testing.T) {
	svcs, m := setupServices(t)
	m.Ticket.EXPECT().Exists(uint(3)).Return(true, nil)
	m.Comment.EXPECT().ListByTicket(uint(3)).Return([]ticket.Comment{
		{ID: 1, Comment: "**done**"},
		{ID: 2, Comment: "<script>alert(1)</script>"},
	}, nil)

	out, err := svcs.Comment.ListComments(3)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Contains(t, out[0].HTML, "<strong>done</strong>")
	assert.NotContains(t, out[1].HTML, "<script>")
}
