package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Invite       *InviteHandler
	Notification *NotificationHandler
	User         *UserHandler
}

// NewRouter mounts the JSON API under /api/v1 and the invite link redirect at
// /invite/redirect. Every route goes through recovery, logging and auth.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware, auth.Handler)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Error: "method not allowed"})
	})

	router.HandleFunc("/invite/redirect", h.Invite.Redirect).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", Health).Methods(http.MethodGet)

	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", h.Auth.Signin).Methods(http.MethodPost)
	api.HandleFunc("/auth/signout", h.Auth.Signout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.Project.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", h.Project.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.Project.GetProject).Methods(http.MethodGet)

	api.HandleFunc("/user/dashboard", h.Project.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/user/projects", h.Project.MyProjects).Methods(http.MethodGet)
	api.HandleFunc("/user/tasks", h.Project.MyTasks).Methods(http.MethodGet)
	api.HandleFunc("/users/exists", h.User.Exists).Methods(http.MethodPost)

	api.HandleFunc("/tasks", h.Task.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", h.Task.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", h.Task.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", h.Task.UpdateTask).Methods(http.MethodPatch, http.MethodPut)

	api.HandleFunc("/invites", h.Invite.CreateInvite).Methods(http.MethodPost)
	api.HandleFunc("/invites", h.Invite.ListInvites).Methods(http.MethodGet)
	api.HandleFunc("/invites/accept", h.Invite.AcceptInvite).Methods(http.MethodPost)
	api.HandleFunc("/invites/{id}", h.Invite.CancelInvite).Methods(http.MethodDelete)
	api.HandleFunc("/invites/{id}/resend", h.Invite.ResendInvite).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications", h.Notification.CreateNotification).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}", h.Notification.SetRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{id}", h.Notification.DeleteNotification).Methods(http.MethodDelete)

	return router
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
