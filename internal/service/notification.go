package service

import (
	"context"
	"errors"
	"strings"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"
)

type notificationDispatcher struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationDispatcher(noteRepo repository.NotificationRepository) NotificationDispatcher {
	return &notificationDispatcher{noteRepo: noteRepo}
}

func (d *notificationDispatcher) Notify(ctx context.Context, recipient string, payload NotificationPayload) *domain.Notification {
	note := payload.build(recipient)
	if note.Recipient == "" {
		logger.Warn("Skipping notification without recipient", "type", note.Type, "title", note.Title)
		return nil
	}
	if err := d.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create notification", "recipient", note.Recipient, "type", note.Type, "error", err)
		return nil
	}
	return note
}

// NotifyMany stores one record per recipient in a single batch. On failure
// nothing is returned and the error is only logged.
func (d *notificationDispatcher) NotifyMany(ctx context.Context, recipients []string, payload NotificationPayload) []domain.Notification {
	notes := make([]*domain.Notification, 0, len(recipients))
	for _, r := range recipients {
		note := payload.build(r)
		if note.Recipient == "" {
			continue
		}
		notes = append(notes, note)
	}
	if len(notes) == 0 {
		return []domain.Notification{}
	}

	if err := d.noteRepo.CreateMany(ctx, notes); err != nil {
		logger.Error("Failed to create notifications", "count", len(notes), "type", payload.Type, "error", err)
		return []domain.Notification{}
	}

	created := make([]domain.Notification, len(notes))
	for i, n := range notes {
		created[i] = *n
	}
	return created
}

func (p NotificationPayload) build(recipient string) *domain.Notification {
	typ := p.Type
	if typ == "" {
		typ = domain.NotificationTypeSystem
	}
	meta := make(map[string]any, len(p.Meta))
	for k, v := range p.Meta {
		meta[k] = v
	}
	return &domain.Notification{
		Recipient:   domain.ParseIdentity(recipient).String(),
		Type:        typ,
		Title:       p.Title,
		Description: p.Description,
		CreatedBy:   optional(p.CreatedBy),
		ProjectID:   optional(p.ProjectID),
		TaskID:      optional(p.TaskID),
		ActionURL:   p.ActionURL,
		Meta:        meta,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) ListNotifications(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	notes, err := s.noteRepo.ListByRecipient(ctx, actor.IdentityStrings())
	if err != nil {
		return nil, internalError("notificationService.ListNotifications", err, "userID", actor.UserID)
	}
	return notes, nil
}

func (s *notificationService) CreateNotification(ctx context.Context, actor domain.Actor, recipient string, payload NotificationPayload) (*domain.Notification, error) {
	logger.EnterMethod("notificationService.CreateNotification", "userID", actor.UserID, "recipient", recipient)
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(recipient) == "" || strings.TrimSpace(payload.Title) == "" {
		return nil, newError(ErrValidation, "user and title are required")
	}
	if payload.Type != "" && !payload.Type.Valid() {
		return nil, newError(ErrValidation, "unknown notification type %q", payload.Type)
	}

	payload.CreatedBy = actor.UserID
	note := payload.build(recipient)
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, internalError("notificationService.CreateNotification", err, "recipient", recipient)
	}
	logger.ExitMethod("notificationService.CreateNotification", "notificationID", note.ID)
	return note, nil
}

func (s *notificationService) SetRead(ctx context.Context, actor domain.Actor, id string, read bool) (*domain.Notification, error) {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return nil, err
	}
	note, err := s.noteRepo.SetRead(ctx, id, read)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "notification not found")
		}
		return nil, internalError("notificationService.SetRead", err, "notificationID", id)
	}
	return note, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "notification not found")
		}
		return internalError("notificationService.DeleteNotification", err, "notificationID", id)
	}
	return nil
}

// getOwned loads a notification and checks the actor is its recipient.
func (s *notificationService) getOwned(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "notification not found")
		}
		return nil, internalError("notificationService.getOwned", err, "notificationID", id)
	}
	if !note.AddressedTo(actor) {
		return nil, newError(ErrForbidden, "forbidden")
	}
	return note, nil
}
