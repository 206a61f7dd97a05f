package application

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/realtime"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/repository/mock"
	storagemock "github.com/linskybing/csdesk/internal/storage/mock"
)

type testMocks struct {
	Identity   *mock.MockIdentityRepo
	User       *mock.MockUserRepo
	Ticket     *mock.MockTicketRepo
	Comment    *mock.MockCommentRepo
	Attachment *mock.MockAttachmentRepo
	Audit      *mock.MockAuditRepo
	Store      *storagemock.MockObjectStore
	Hub        *realtime.Hub
}

func setupServices(t *testing.T) (*Services, *testMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	m := &testMocks{
		Identity:   mock.NewMockIdentityRepo(ctrl),
		User:       mock.NewMockUserRepo(ctrl),
		Ticket:     mock.NewMockTicketRepo(ctrl),
		Comment:    mock.NewMockCommentRepo(ctrl),
		Attachment: mock.NewMockAttachmentRepo(ctrl),
		Audit:      mock.NewMockAuditRepo(ctrl),
		Store:      storagemock.NewMockObjectStore(ctrl),
		Hub:        realtime.NewHub(),
	}
	repos := &repository.Repos{
		Identity:   m.Identity,
		User:       m.User,
		Ticket:     m.Ticket,
		Comment:    m.Comment,
		Attachment: m.Attachment,
		Audit:      m.Audit,
	}

	authSvc := auth.NewService(m.Identity, auth.NewMemorySessionStore(), auth.NewTokenManager("test-secret", "csdesk"), m.Hub, time.Hour)
	svcs := New(repos, Deps{
		Auth:           authSvc,
		Store:          m.Store,
		MaxUploadBytes: 1024,
	})
	return svcs, m
}

// auditAction matches an *audit.AuditLog with the given action.
type auditAction string

func (a auditAction) Matches(x interface{}) bool {
	l, ok := x.(*audit.AuditLog)
	return ok && l.Action == string(a)
}

func (a auditAction) String() string {
	return "audit log with action " + string(a)
}

func ptrUint(v uint) *uint { return &v }

func ptrBool(v bool) *bool { return &v }
