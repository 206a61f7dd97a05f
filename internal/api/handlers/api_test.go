package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/nav"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/testutils"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "secret123"

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type fixture struct {
	app     *testutils.App
	admin   user.User
	manager user.User
	agent   user.User
}

func setup(t *testing.T) *fixture {
	app := testutils.SetupRouter(t)
	return &fixture{
		app:     app,
		admin:   app.CreateUser(t, "Ada Admin", "admin@example.com", password, user.RoleAdmin),
		manager: app.CreateUser(t, "Max Manager", "manager@example.com", password, user.RoleManager),
		agent:   app.CreateUser(t, "Alex Agent", "agent@example.com", password, user.RoleAgent),
	}
}

func (f *fixture) token(t *testing.T, u user.User) string {
	return f.app.Login(t, u.Email, password)
}

func TestLogin_API(t *testing.T) {
	f := setup(t)

	w := f.app.Do(http.MethodPost, "/api/auth/login", jsonBody(t, user.LoginInput{Email: "agent@example.com", Password: password}), "", jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := decode[response.TokenResponse](t, w)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "agent", tok.Role)
	assert.Equal(t, "Alex Agent", tok.Name)

	var cookieSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.Value == tok.Token {
			cookieSet = true
		}
	}
	assert.True(t, cookieSet)

	logs, err := f.app.Repos.Audit.GetAuditLogs(repository.AuditQueryParams{Action: ptr(audit.ActionLogin)})
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "User logged in successfully", logs[0].Details)
}

func TestLogin_API_Failures(t *testing.T) {
	f := setup(t)

	w := f.app.Do(http.MethodPost, "/api/auth/login", jsonBody(t, user.LoginInput{Email: "agent@example.com", Password: "wrong"}), "", jsonHeaders)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.app.Do(http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{"email": "not-an-email"}), "", jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decode[response.ErrorResponse](t, w).Error
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "password is required")
}

func TestLogout_RevokesSession(t *testing.T) {
	f := setup(t)
	tok := f.token(t, f.agent)

	w := f.app.Do(http.MethodGet, "/api/auth/session", nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.app.Do(http.MethodPost, "/api/auth/logout", nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.app.Do(http.MethodGet, "/api/auth/session", nil, tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.app.Do(http.MethodGet, "/api/me", nil, tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RequiresSession(t *testing.T) {
	f := setup(t)

	w := f.app.Do(http.MethodGet, "/api/me", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.app.Do(http.MethodGet, "/api/me", nil, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.app.Do(http.MethodGet, "/api/me", nil, f.token(t, f.manager), nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[user.User](t, w)
	assert.Equal(t, f.manager.ID, me.ID)
	assert.Equal(t, user.RoleManager, me.Role)
}

func TestNavigation_FiltersByRole(t *testing.T) {
	f := setup(t)

	w := f.app.Do(http.MethodGet, "/api/navigation?path=/reports", nil, f.token(t, f.agent), nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]nav.MenuItem](t, w)
	for _, it := range items {
		assert.False(t, it.AdminOnly, it.Label)
		assert.Equal(t, it.Href == "/reports", it.Active)
	}

	w = f.app.Do(http.MethodGet, "/api/navigation", nil, f.token(t, f.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	adminItems := decode[[]nav.MenuItem](t, w)
	assert.Greater(t, len(adminItems), len(items))
}

func createTicket(t *testing.T, f *fixture, tok string, in ticket.CreateTicketDTO) ticket.Ticket {
	t.Helper()
	w := f.app.Do(http.MethodPost, "/api/tickets", jsonBody(t, in), tok, jsonHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[ticket.Ticket](t, w)
}

func TestTickets_CreateListAndUpdate(t *testing.T) {
	f := setup(t)
	tok := f.token(t, f.agent)

	first := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "Printer on fire", Category: "hardware"})
	assert.Equal(t, ticket.StatusOpen, first.Status)
	assert.Equal(t, ticket.PriorityMedium, first.Priority)
	second := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "VPN down", Priority: ticket.PriorityUrgent, AssignedAgentID: &f.agent.ID})

	w := f.app.Do(http.MethodGet, "/api/tickets", nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]ticket.TicketListItem](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, "Alex Agent", list[0].AssigneeName)
	assert.Equal(t, "Unassigned", list[1].AssigneeName)

	path := "/api/tickets/" + strconv.Itoa(int(first.ID))
	w = f.app.Do(http.MethodPut, path+"/status", jsonBody(t, ticket.UpdateStatusDTO{Status: ticket.StatusResolved}), tok, jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ticket.StatusResolved, decode[ticket.Ticket](t, w).Status)

	w = f.app.Do(http.MethodPut, path+"/status", jsonBody(t, ticket.UpdateStatusDTO{Status: "Exploded"}), tok, jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.app.Do(http.MethodPut, path+"/assign", jsonBody(t, ticket.AssignDTO{AgentID: &f.admin.ID}), tok, jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code, "admins are not assignable")

	w = f.app.Do(http.MethodPut, path+"/assign", jsonBody(t, ticket.AssignDTO{AgentID: &f.manager.ID}), tok, jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.app.Do(http.MethodGet, "/api/tickets/9999", nil, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, bad := range []string{"0", "abc", "-1"} {
		w = f.app.Do(http.MethodGet, "/api/tickets/"+bad, nil, tok, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w = f.app.Do(http.MethodGet, "/api/dashboard", nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[application.DashboardSummary](t, w)
	assert.Equal(t, int64(1), summary.Counts.Open)
	assert.Equal(t, int64(1), summary.Counts.Resolved)
	require.Len(t, summary.AssignedTasks, 1)
	assert.Equal(t, second.ID, summary.AssignedTasks[0].ID)
}

func TestComments_RenderSanitizedMarkdown(t *testing.T) {
	f := setup(t)
	tok := f.token(t, f.agent)
	tk := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "Login loop"})
	path := "/api/tickets/" + strconv.Itoa(int(tk.ID)) + "/comments"

	w := f.app.Do(http.MethodPost, path, jsonBody(t, ticket.CreateCommentDTO{Comment: "**Fixed**<script>alert(1)</script>", IsInternal: true}), tok, jsonHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.app.Do(http.MethodPost, path, jsonBody(t, ticket.CreateCommentDTO{Comment: "   "}), tok, jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.app.Do(http.MethodGet, path, nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]application.RenderedComment](t, w)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsInternal)
	assert.Equal(t, "Alex Agent", comments[0].Author.Name)
	assert.Contains(t, comments[0].HTML, "<strong>Fixed</strong>")
	assert.NotContains(t, comments[0].HTML, "<script>")

	w = f.app.Do(http.MethodGet, "/api/tickets/4242/comments", nil, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.app.Do(http.MethodPost, "/api/tickets/4242/comments", jsonBody(t, ticket.CreateCommentDTO{Comment: "hi"}), tok, jsonHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartFile(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAttachments_UploadAndListPerTicket(t *testing.T) {
	f := setup(t)
	tok := f.token(t, f.agent)
	t1 := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "one"})
	t2 := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "two"})
	path := "/api/tickets/" + strconv.Itoa(int(t1.ID)) + "/attachments"

	body, ct := multipartFile(t, "screen shot.png", "png-bytes")
	w := f.app.Do(http.MethodPost, path, body, tok, map[string]string{"Content-Type": ct})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	att := decode[ticket.Attachment](t, w)
	assert.Equal(t, "screen shot.png", att.FileName)
	assert.True(t, strings.HasPrefix(att.FileURL, "tickets/"+strconv.Itoa(int(t1.ID))+"/"))
	stored, ok := f.app.Store.Get(att.FileURL)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(stored))

	w = f.app.Do(http.MethodGet, path, nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	atts := decode[[]ticket.Attachment](t, w)
	require.Len(t, atts, 1)
	assert.Equal(t, "http://objects.test/attachments/"+att.FileURL, atts[0].PublicURL)

	w = f.app.Do(http.MethodGet, "/api/tickets/"+strconv.Itoa(int(t2.ID))+"/attachments", nil, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	f.app.Store.FailURLs = true
	w = f.app.Do(http.MethodGet, path, nil, tok, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAttachments_RejectsMissingFile(t *testing.T) {
	f := setup(t)
	tok := f.token(t, f.agent)
	tk := createTicket(t, f, tok, ticket.CreateTicketDTO{Title: "one"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	w := f.app.Do(http.MethodPost, "/api/tickets/"+strconv.Itoa(int(tk.ID))+"/attachments", &buf, tok, map[string]string{"Content-Type": mw.FormDataContentType()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.app.Store.Len())
}

func TestReports_AllStaff(t *testing.T) {
	f := setup(t)
	agentTok := f.token(t, f.agent)
	tk := createTicket(t, f, agentTok, ticket.CreateTicketDTO{Title: "done", AssignedAgentID: &f.agent.ID})
	w := f.app.Do(http.MethodPut, "/api/tickets/"+strconv.Itoa(int(tk.ID))+"/status", jsonBody(t, ticket.UpdateStatusDTO{Status: ticket.StatusResolved}), agentTok, jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.app.Do(http.MethodGet, "/api/reports", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, u := range []user.User{f.agent, f.manager, f.admin} {
		w = f.app.Do(http.MethodGet, "/api/reports", nil, f.token(t, u), nil)
		require.Equal(t, http.StatusOK, w.Code, u.Role)
		var rep struct {
			TotalTickets      int `json:"total_tickets"`
			UnresolvedTickets int `json:"unresolved_tickets"`
			Agents            []struct {
				AgentName       string `json:"agent_name"`
				TicketsResolved int    `json:"tickets_resolved"`
			} `json:"agents"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
		assert.Equal(t, 1, rep.TotalTickets)
		assert.Equal(t, 0, rep.UnresolvedTickets)
		require.Len(t, rep.Agents, 2, "agents and managers are listed")
	}
}

func TestAdmin_CreateUser(t *testing.T) {
	f := setup(t)
	adminTok := f.token(t, f.admin)
	in := user.CreateUserInput{Name: "New Hire", Email: "new@example.com", Password: password, Role: user.RoleAgent}

	w := f.app.Do(http.MethodPost, "/api/admin/create-user", jsonBody(t, in), f.token(t, f.agent), jsonHeaders)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.app.Do(http.MethodPost, "/api/admin/create-user", jsonBody(t, in), adminTok, jsonHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.app.Do(http.MethodPost, "/api/admin/create-user", jsonBody(t, in), adminTok, jsonHeaders)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, application.ErrEmailTaken.Error(), decode[response.ErrorResponse](t, w).Error)

	in.Email = "NEW@example.com"
	w = f.app.Do(http.MethodPost, "/api/admin/create-user", jsonBody(t, in), adminTok, jsonHeaders)
	assert.Equal(t, http.StatusConflict, w.Code, "emails are case-insensitive")

	f.app.Login(t, "new@example.com", password)
}

func TestAdmin_DeactivatedUserLosesAccess(t *testing.T) {
	f := setup(t)
	adminTok := f.token(t, f.admin)
	agentTok := f.token(t, f.agent)

	path := "/api/admin/users/" + strconv.Itoa(int(f.agent.ID))
	w := f.app.Do(http.MethodPut, path, jsonBody(t, map[string]any{"is_active": false}), adminTok, jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.app.Do(http.MethodGet, "/api/me", nil, agentTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.app.Do(http.MethodPost, "/api/auth/login", jsonBody(t, user.LoginInput{Email: f.agent.Email, Password: password}), "", jsonHeaders)
	assert.Equal(t, http.StatusForbidden, w.Code)

	self := "/api/admin/users/" + strconv.Itoa(int(f.admin.ID))
	w = f.app.Do(http.MethodPut, self, jsonBody(t, map[string]any{"role": "agent"}), adminTok, jsonHeaders)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuditLogs_ScopedByRole(t *testing.T) {
	f := setup(t)

	managerTok := f.token(t, f.manager)
	w := f.app.Do(http.MethodGet, "/api/audit/logs?user_id="+strconv.Itoa(int(f.admin.ID)), nil, managerTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	own := decode[[]audit.AuditLog](t, w)
	require.NotEmpty(t, own, "the manager's login is recorded")
	for _, l := range own {
		assert.Equal(t, f.manager.ID, l.UserID)
	}

	w = f.app.Do(http.MethodGet, "/api/audit/logs?action=create_user&limit=2", nil, f.token(t, f.admin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	logs := decode[[]audit.AuditLog](t, w)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, audit.ActionCreateUser, l.Action)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := setup(t)

	w := f.app.Do(http.MethodGet, "/healthz", nil, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.app.Do(http.MethodGet, "/metrics", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "csdesk_http_requests_total")
}

func ptr[T any](v T) *T { return &v }
