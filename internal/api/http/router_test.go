package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/security"
	"collab-deck-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password, passwordConfirm string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password, passwordConfirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Signin(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) CreateInvite(ctx context.Context, actor domain.Actor, projectID, email, message string) (*domain.Invite, error) {
	args := m.Called(ctx, actor, projectID, email, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invite), args.Error(1)
}
func (m *MockInviteService) ResendInvite(ctx context.Context, actor domain.Actor, inviteID string) error {
	args := m.Called(ctx, actor, inviteID)
	return args.Error(0)
}
func (m *MockInviteService) CancelInvite(ctx context.Context, actor domain.Actor, inviteID string) error {
	args := m.Called(ctx, actor, inviteID)
	return args.Error(0)
}
func (m *MockInviteService) AcceptInvite(ctx context.Context, actor domain.Actor, token string) (*domain.Project, error) {
	args := m.Called(ctx, actor, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockInviteService) ListOutgoingInvites(ctx context.Context, actor domain.Actor) ([]domain.Invite, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Invite), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor domain.Actor, input service.TaskInput) (*domain.Task, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) ListTasks(ctx context.Context, actor domain.Actor, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, actor, projectID)
	return args.Get(0).([]domain.Task), args.Error(1)
}
func (m *MockTaskService) GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) UpdateTask(ctx context.Context, actor domain.Actor, id string, update domain.TaskUpdate) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) CreateProject(ctx context.Context, actor domain.Actor, input service.ProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) ListMyProjects(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectService) ListMyProjectsWithPreferences(ctx context.Context, actor domain.Actor) ([]domain.UserProject, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.UserProject), args.Error(1)
}
func (m *MockProjectService) Overview(ctx context.Context, actor domain.Actor) (*domain.Overview, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Overview), args.Error(1)
}
func (m *MockProjectService) ListMyTasks(ctx context.Context, actor domain.Actor) (*domain.MemberTasks, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberTasks), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Lookup(ctx context.Context, actor domain.Actor, email string) (*domain.User, error) {
	args := m.Called(ctx, actor, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

const testAppURL = "https://deck.example.com"

var bobUser = &domain.User{ID: "user-b", Name: "Bob", Email: "b@example.com"}

type routerFixture struct {
	auth     *MockAuthService
	invites  *MockInviteService
	tasks    *MockTaskService
	projects *MockProjectService
	users    *MockUserService
	tokens   security.TokenManager
	router   http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		auth:     new(MockAuthService),
		invites:  new(MockInviteService),
		tasks:    new(MockTaskService),
		projects: new(MockProjectService),
		users:    new(MockUserService),
		tokens:   security.NewTokenManager("router-test-secret", time.Hour),
	}
	f.router = NewRouter(Handlers{
		Auth:         NewAuthHandler(f.auth, time.Hour, true),
		Project:      NewProjectHandler(f.projects),
		Task:         NewTaskHandler(f.tasks),
		Invite:       NewInviteHandler(f.invites, testAppURL+"/"),
		Notification: NewNotificationHandler(nil),
		User:         NewUserHandler(f.users),
	}, NewAuthMiddleware(f.tokens))
	return f
}

func (f *routerFixture) bobToken(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.GenerateAccessToken(bobUser)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRouter_Auth(t *testing.T) {
	t.Run("Health is public", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/invites", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, rec)["code"])
		f.invites.AssertNotCalled(t, "ListOutgoingInvites", mock.Anything, mock.Anything)
	})

	t.Run("Invalid token", func(t *testing.T) {
		f := newRouterFixture()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invites", nil)
		req.Header.Set("Authorization", "Bearer nonsense")

		rec := f.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Cookie token", func(t *testing.T) {
		f := newRouterFixture()
		actor := domain.Actor{UserID: "user-b", Email: "b@example.com", Name: "Bob"}
		f.invites.On("ListOutgoingInvites", mock.Anything, actor).Return([]domain.Invite{{ID: "inv-1"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invites", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: f.bobToken(t)})
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["invites"], 1)
	})

	t.Run("Signin sets cookie", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Signin", mock.Anything, "b@example.com", "hunter2hunter2").Return(bobUser, "tok-123", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
			strings.NewReader(`{"email":"b@example.com","password":"hunter2hunter2"}`))
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		c := findCookie(rec, AuthCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "tok-123", c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, 3600, c.MaxAge)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Signin", mock.Anything, "b@example.com", "nope").Return(nil, "", service.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
			strings.NewReader(`{"email":"b@example.com","password":"nope"}`))
		rec := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid email or password", decodeBody(t, rec)["error"])
	})

	t.Run("Unknown route", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeBody(t, rec)["code"])
	})
}

func TestRouter_Invites(t *testing.T) {
	authed := func(f *routerFixture, t *testing.T, method, path, body string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+f.bobToken(t))
		return req
	}

	t.Run("Accept checks credentials before token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/invites/accept", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, rec)["code"])
		f.invites.AssertNotCalled(t, "AcceptInvite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Accept requires token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/invites/accept", `{}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "token required", decodeBody(t, rec)["error"])
	})

	t.Run("Accept clears pending cookie", func(t *testing.T) {
		f := newRouterFixture()
		f.invites.On("AcceptInvite", mock.Anything, mock.Anything, "tok-1").
			Return(&domain.Project{ID: "proj-1", Collaborators: []string{"b@example.com"}}, nil)

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/invites/accept", `{"token":"tok-1"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invite accepted", body["message"])
		c := findCookie(rec, PendingInviteCookieName)
		require.NotNil(t, c)
		assert.True(t, c.MaxAge < 0)
	})

	t.Run("Accept twice", func(t *testing.T) {
		f := newRouterFixture()
		f.invites.On("AcceptInvite", mock.Anything, mock.Anything, "tok-1").
			Return(nil, &service.Error{Kind: service.ErrInvalidState, Message: "invite already accepted"})

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/invites/accept", `{"token":"tok-1"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_state", decodeBody(t, rec)["code"])
	})

	t.Run("Resend delivery failure", func(t *testing.T) {
		f := newRouterFixture()
		f.invites.On("ResendInvite", mock.Anything, mock.Anything, "inv-1").
			Return(&service.Error{Kind: service.ErrDeliveryFailure, Message: "failed to send email"})

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/invites/inv-1/resend", ""))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "delivery_failure", body["code"])
		assert.Equal(t, "failed to send email", body["error"])
	})

	t.Run("Cancel forbidden", func(t *testing.T) {
		f := newRouterFixture()
		f.invites.On("CancelInvite", mock.Anything, mock.Anything, "inv-1").
			Return(&service.Error{Kind: service.ErrForbidden, Message: "forbidden"})

		rec := f.do(authed(f, t, http.MethodDelete, "/api/v1/invites/inv-1", ""))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Create", func(t *testing.T) {
		f := newRouterFixture()
		f.invites.On("CreateInvite", mock.Anything, mock.Anything, "proj-1", "c@example.com", "join us").
			Return(&domain.Invite{ID: "inv-2", Token: "tok-2"}, nil)

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/invites",
			`{"projectId":"proj-1","email":"c@example.com","message":"join us"}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Invite created", decodeBody(t, rec)["message"])
	})

	t.Run("Redirect parks token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodGet, "/invite/redirect?token=tok-1", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, testAppURL+"/invite/accept?token=tok-1", rec.Header().Get("Location"))
		c := findCookie(rec, PendingInviteCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "tok-1", c.Value)
		assert.True(t, c.HttpOnly)
	})
}

func TestRouter_CurrentUser(t *testing.T) {
	bob := domain.Actor{UserID: "user-b", Email: "b@example.com", Name: "Bob"}
	authed := func(f *routerFixture, t *testing.T, method, path, body string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+f.bobToken(t))
		return req
	}

	t.Run("Dashboard", func(t *testing.T) {
		f := newRouterFixture()
		f.projects.On("Overview", mock.Anything, bob).Return(&domain.Overview{
			Projects:       []domain.Project{{ID: "proj-1"}},
			RecentProjects: []domain.Project{{ID: "proj-1"}},
			Tasks:          []domain.Task{{ID: "t1", Status: domain.TaskStatusDone}},
			CompletedTasks: []domain.Task{{ID: "t1", Status: domain.TaskStatusDone}},
			Collaborators:  []string{"dave@example.com"},
		}, nil)

		rec := f.do(authed(f, t, http.MethodGet, "/api/v1/user/dashboard", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["recentProjects"], 1)
		assert.Len(t, body["completedTasks"], 1)
		assert.Equal(t, []any{"dave@example.com"}, body["collaborators"])
	})

	t.Run("Dashboard requires credentials", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/user/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.projects.AssertNotCalled(t, "Overview", mock.Anything, mock.Anything)
	})

	t.Run("My projects", func(t *testing.T) {
		f := newRouterFixture()
		f.projects.On("ListMyProjectsWithPreferences", mock.Anything, bob).Return([]domain.UserProject{
			{Project: domain.Project{ID: "proj-1", Name: "Launch"}, Pinned: true, Contributing: true},
		}, nil)

		rec := f.do(authed(f, t, http.MethodGet, "/api/v1/user/projects", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		projects := decodeBody(t, rec)["projects"].([]any)
		require.Len(t, projects, 1)
		first := projects[0].(map[string]any)
		assert.Equal(t, "proj-1", first["id"])
		assert.Equal(t, true, first["isPinned"])
		assert.Equal(t, false, first["isFavorite"])
	})

	t.Run("My tasks", func(t *testing.T) {
		f := newRouterFixture()
		f.projects.On("ListMyTasks", mock.Anything, bob).Return(&domain.MemberTasks{
			Tasks:         []domain.Task{{ID: "t1"}, {ID: "t2"}},
			Collaborators: []string{},
			CurrentUser:   "b@example.com",
		}, nil)

		rec := f.do(authed(f, t, http.MethodGet, "/api/v1/user/tasks", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["tasks"], 2)
		assert.Equal(t, "b@example.com", body["currentUser"])
	})

	t.Run("Lookup existing account", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("Lookup", mock.Anything, bob, "c@example.com").
			Return(&domain.User{ID: "user-c", Name: "Carol", Email: "c@example.com", PasswordHash: "secret"}, nil)

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/users/exists", `{"email":"c@example.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["exists"])
		assert.Equal(t, map[string]any{"id": "user-c", "name": "Carol", "email": "c@example.com"}, body["user"])
	})

	t.Run("Lookup unknown account", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("Lookup", mock.Anything, bob, "x@example.com").Return(nil, nil)

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/users/exists", `{"email":"x@example.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"exists": false}, decodeBody(t, rec))
	})

	t.Run("Lookup without email", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("Lookup", mock.Anything, bob, "").
			Return(nil, &service.Error{Kind: service.ErrValidation, Message: "email is required"})

		rec := f.do(authed(f, t, http.MethodPost, "/api/v1/users/exists", `{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "email is required", decodeBody(t, rec)["error"])
	})
}

func TestRouter_UpdateTaskMethods(t *testing.T) {
	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			f := newRouterFixture()
			done := domain.TaskStatusDone
			f.tasks.On("UpdateTask", mock.Anything, mock.Anything, "task-1", domain.TaskUpdate{Status: &done}).
				Return(&domain.Task{ID: "task-1", Status: done}, nil)

			req := httptest.NewRequest(method, "/api/v1/tasks/task-1", strings.NewReader(`{"status":"done"}`))
			req.Header.Set("Authorization", "Bearer "+f.bobToken(t))
			rec := f.do(req)

			assert.Equal(t, http.StatusOK, rec.Code)
			f.tasks.AssertExpectations(t)
		})
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind   error
		status int
		code   string
	}{
		{service.ErrValidation, http.StatusBadRequest, "validation_error"},
		{service.ErrInvalidState, http.StatusBadRequest, "invalid_state"},
		{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{service.ErrNotFound, http.StatusNotFound, "not_found"},
		{service.ErrConflict, http.StatusConflict, "conflict"},
		{service.ErrDeliveryFailure, http.StatusInternalServerError, "delivery_failure"},
		{service.ErrInternal, http.StatusInternalServerError, "internal_error"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, c := range cases {
		status, code := statusFor(&service.Error{Kind: c.kind, Message: "x"})
		assert.Equal(t, c.status, status, c.code)
		assert.Equal(t, c.code, code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeBody(t, rec)["code"])
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("dueDate", "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *d)

	d, err = parseDate("dueDate", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("dueDate", "tomorrow")
	assert.ErrorIs(t, err, service.ErrValidation)
}
