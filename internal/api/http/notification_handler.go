package http

import (
	"net/http"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

type createNotificationRequest struct {
	User        string                  `json:"user"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	ProjectID   string                  `json:"projectId"`
	TaskID      string                  `json:"taskId"`
	ActionURL   string                  `json:"actionUrl"`
	Meta        map[string]any          `json:"meta"`
}

type setReadRequest struct {
	Read bool `json:"read"`
}

type notificationResponse struct {
	Notification *domain.Notification `json:"notification"`
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteSvc.ListNotifications(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: notes})
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.noteSvc.CreateNotification(r.Context(), ActorFromContext(r.Context()), req.User, service.NotificationPayload{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		ActionURL:   req.ActionURL,
		Meta:        req.Meta,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, notificationResponse{Notification: note})
}

func (h *NotificationHandler) SetRead(w http.ResponseWriter, r *http.Request) {
	var req setReadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.noteSvc.SetRead(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"], req.Read)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{Notification: note})
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.noteSvc.DeleteNotification(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Deleted"})
}
