package repository

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *Repos {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&identity.Identity{},
		&user.User{},
		&ticket.Ticket{},
		&ticket.Comment{},
		&ticket.Attachment{},
		&audit.AuditLog{},
	))
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepositories(db)
}

func seedUser(t *testing.T, r *Repos, authID, name string, role user.Role, active bool) user.User {
	t.Helper()
	u := user.User{AuthUserID: authID, Name: name, Email: authID + "@example.com", Role: role, IsActive: active}
	require.NoError(t, r.User.SaveUser(&u))
	return u
}

func TestUserRepo_LookupsAndRoles(t *testing.T) {
	r := setupDB(t)
	ann := seedUser(t, r, "a1", "Ann", user.RoleAgent, true)
	seedUser(t, r, "m1", "Mia", user.RoleManager, true)
	seedUser(t, r, "x1", "Xi", user.RoleAdmin, true)

	got, err := r.User.GetUserByAuthID("a1")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.ID)

	_, err = r.User.GetUserByAuthID("missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	agents, err := r.User.ListByRoles([]string{"agent", "manager"})
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Ann", agents[0].Name)
	assert.Equal(t, "Mia", agents[1].Name)
}

func TestUserRepo_InactiveFlagPersists(t *testing.T) {
	r := setupDB(t)
	u := seedUser(t, r, "a1", "Ann", user.RoleAgent, false)

	got, err := r.User.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := setupDB(t)
	seedUser(t, r, "a1", "Ann", user.RoleAgent, true)

	dup := user.User{AuthUserID: "a2", Name: "Other", Email: "a1@example.com", Role: user.RoleAgent, IsActive: true}
	assert.Error(t, r.User.SaveUser(&dup))
}

func TestTicketRepo_ListOrderAndAssignee(t *testing.T) {
	r := setupDB(t)
	ann := seedUser(t, r, "a1", "Ann", user.RoleAgent, true)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := ticket.Ticket{Title: "old", CreatedAt: base}
	newer := ticket.Ticket{Title: "new", AssignedAgentID: &ann.ID, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, r.Ticket.Create(&older))
	require.NoError(t, r.Ticket.Create(&newer))

	all, err := r.Ticket.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].Title)
	assert.Equal(t, "Ann", all[0].AssigneeName())
	assert.Equal(t, "Unassigned", all[1].AssigneeName())
	assert.Equal(t, ticket.StatusOpen, all[1].Status)
	assert.Equal(t, ticket.PriorityMedium, all[1].Priority)
}

func TestTicketRepo_AssignedCountsAndUpdate(t *testing.T) {
	r := setupDB(t)
	ann := seedUser(t, r, "a1", "Ann", user.RoleAgent, true)

	for i := 0; i < 7; i++ {
		tk := ticket.Ticket{Title: "t", AssignedAgentID: &ann.ID, Status: ticket.StatusOpen}
		require.NoError(t, r.Ticket.Create(&tk))
	}
	resolved := ticket.Ticket{Title: "r", Status: ticket.StatusResolved}
	require.NoError(t, r.Ticket.Create(&resolved))

	mine, err := r.Ticket.FindAssignedTo(ann.ID, 5)
	require.NoError(t, err)
	assert.Len(t, mine, 5)

	counts, err := r.Ticket.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCounts{Open: 7, InProgress: 0, Resolved: 1}, counts)

	mine[0].Status = ticket.StatusInProgress
	mine[0].AssignedAgentID = nil
	require.NoError(t, r.Ticket.Update(&mine[0]))

	got, err := r.Ticket.FindByID(mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusInProgress, got.Status)
	assert.Nil(t, got.AssignedAgentID)

	ok, err := r.Ticket.Exists(got.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Ticket.Exists(9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommentAndAttachmentRepos_ScopedToTicket(t *testing.T) {
	r := setupDB(t)
	ann := seedUser(t, r, "a1", "Ann", user.RoleAgent, true)
	t1 := ticket.Ticket{Title: "one"}
	t2 := ticket.Ticket{Title: "two"}
	require.NoError(t, r.Ticket.Create(&t1))
	require.NoError(t, r.Ticket.Create(&t2))

	require.NoError(t, r.Comment.Create(&ticket.Comment{TicketID: t1.ID, UserID: ann.ID, Comment: "first"}))
	require.NoError(t, r.Comment.Create(&ticket.Comment{TicketID: t1.ID, UserID: ann.ID, Comment: "second", IsInternal: true}))
	require.NoError(t, r.Comment.Create(&ticket.Comment{TicketID: t2.ID, UserID: ann.ID, Comment: "other"}))

	comments, err := r.Comment.ListByTicket(t1.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Comment)
	assert.Equal(t, "Ann", comments[0].Author.Name)
	assert.True(t, comments[1].IsInternal)

	require.NoError(t, r.Attachment.Create(&ticket.Attachment{TicketID: t1.ID, FileName: "a", FileURL: "tickets/1/a"}))
	require.NoError(t, r.Attachment.Create(&ticket.Attachment{TicketID: t2.ID, FileName: "b", FileURL: "tickets/2/b"}))

	atts, err := r.Attachment.ListByTicket(t1.ID)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, "a", atts[0].FileName)
}

func TestAuditRepo_Filters(t *testing.T) {
	r := setupDB(t)
	require.NoError(t, r.Audit.CreateAuditLog(&audit.AuditLog{UserID: 1, Action: audit.ActionLogin, Details: "User logged in successfully"}))
	require.NoError(t, r.Audit.CreateAuditLog(&audit.AuditLog{UserID: 2, Action: audit.ActionLogin}))
	require.NoError(t, r.Audit.CreateAuditLog(&audit.AuditLog{UserID: 1, Action: audit.ActionAddComment}))

	uid := uint(1)
	action := audit.ActionLogin
	logs, err := r.Audit.GetAuditLogs(AuditQueryParams{UserID: &uid, Action: &action})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "User logged in successfully", logs[0].Details)

	all, err := r.Audit.GetAuditLogs(AuditQueryParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExecTx_RollsBack(t *testing.T) {
	r := setupDB(t)
	boom := errors.New("boom")

	err := r.ExecTx(func(tx *Repos) error {
		if err := tx.Identity.Create(&identity.Identity{ID: "id-1", Email: "a@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.Identity.GetByID("id-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuditRepo_DeleteOlderThan(t *testing.T) {
	r := setupDB(t)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, r.Audit.CreateAuditLog(&audit.AuditLog{UserID: 1, Action: audit.ActionLogin, CreatedAt: old}))
	require.NoError(t, r.Audit.CreateAuditLog(&audit.AuditLog{UserID: 1, Action: audit.ActionLogout}))

	n, err := r.Audit.DeleteOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := r.Audit.GetAuditLogs(AuditQueryParams{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, audit.ActionLogout, left[0].Action)
}
