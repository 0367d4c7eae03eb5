package service_test

import (
	"context"
	"testing"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/repository"
	"collab-deck-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		note := d.Notify(ctx, "Bob@Example.com", service.NotificationPayload{Title: "Hello", ProjectID: "p1"})
		require.NotNil(t, note)
		assert.Equal(t, "bob@example.com", note.Recipient)
		assert.Equal(t, domain.NotificationTypeSystem, note.Type)
		assert.False(t, note.Read)
		require.NotNil(t, note.ProjectID)
		assert.Equal(t, "p1", *note.ProjectID)
		assert.Nil(t, note.TaskID)
		assert.NotNil(t, note.Meta)
	})

	t.Run("Store failure is swallowed", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError)

		assert.Nil(t, d.Notify(ctx, "user-1", service.NotificationPayload{Title: "Hello"}))
	})

	t.Run("Blank recipient skips the store", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)

		assert.Nil(t, d.Notify(ctx, "  ", service.NotificationPayload{Title: "Hello"}))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNotificationDispatcher_NotifyMany(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty recipients", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)

		notes := d.NotifyMany(ctx, nil, service.NotificationPayload{Title: "x"})
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
		notes = d.NotifyMany(ctx, []string{}, service.NotificationPayload{Title: "x"})
		assert.Empty(t, notes)
		repo.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
	})

	t.Run("One record per recipient", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)
		repo.On("CreateMany", ctx, mock.MatchedBy(func(notes []*domain.Notification) bool {
			return len(notes) == 2 && notes[0].Recipient == "user-1" && notes[1].Recipient == "x@example.com"
		})).Return(nil)

		meta := map[string]any{"k": "v"}
		notes := d.NotifyMany(ctx, []string{"user-1", "X@example.com"}, service.NotificationPayload{
			Type:  domain.NotificationTypeAssignment,
			Title: "Assigned",
			Meta:  meta,
		})
		require.Len(t, notes, 2)
		for _, n := range notes {
			assert.Equal(t, domain.NotificationTypeAssignment, n.Type)
			assert.Equal(t, "Assigned", n.Title)
			assert.Equal(t, "v", n.Meta["k"])
		}
		notes[0].Meta["k"] = "changed"
		assert.Equal(t, "v", notes[1].Meta["k"])
		assert.Equal(t, "v", meta["k"])
	})

	t.Run("Batch failure yields empty result", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := service.NewNotificationDispatcher(repo)
		repo.On("CreateMany", ctx, mock.Anything).Return(assert.AnError)

		notes := d.NotifyMany(ctx, []string{"user-1"}, service.NotificationPayload{Title: "x"})
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	bobNote := &domain.Notification{ID: "n1", Recipient: "b@example.com", Title: "Hi"}

	t.Run("List by both identity forms", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("ListByRecipient", ctx, []string{"user-b", "b@example.com"}).Return([]domain.Notification{*bobNote}, nil)

		notes, err := svc.ListNotifications(ctx, bob)
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})

	t.Run("List requires auth", func(t *testing.T) {
		svc := service.NewNotificationService(new(MockNotificationRepo))
		_, err := svc.ListNotifications(ctx, domain.Actor{})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Create stamps creator", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.CreatedBy != nil && *n.CreatedBy == alice.UserID && n.Recipient == "user-b"
		})).Return(nil)

		note, err := svc.CreateNotification(ctx, alice, "user-b", service.NotificationPayload{
			Type:      domain.NotificationTypeMention,
			Title:     "You were mentioned",
			CreatedBy: "spoofed",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationTypeMention, note.Type)
	})

	t.Run("Create validates input", func(t *testing.T) {
		svc := service.NewNotificationService(new(MockNotificationRepo))
		_, err := svc.CreateNotification(ctx, alice, "", service.NotificationPayload{Title: "x"})
		assert.ErrorIs(t, err, service.ErrValidation)
		_, err = svc.CreateNotification(ctx, alice, "user-b", service.NotificationPayload{Title: "x", Type: "bogus"})
		assert.ErrorIs(t, err, service.ErrValidation)
		_, err = svc.CreateNotification(ctx, domain.Actor{}, "user-b", service.NotificationPayload{Title: "x"})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Recipient toggles read", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		updated := *bobNote
		updated.Read = true
		repo.On("GetByID", ctx, "n1").Return(bobNote, nil)
		repo.On("SetRead", ctx, "n1", true).Return(&updated, nil)

		note, err := svc.SetRead(ctx, bob, "n1", true)
		require.NoError(t, err)
		assert.True(t, note.Read)
	})

	t.Run("Others may not toggle read", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("GetByID", ctx, "n1").Return(bobNote, nil)

		_, err := svc.SetRead(ctx, carol, "n1", true)
		assert.ErrorIs(t, err, service.ErrForbidden)
		repo.AssertNotCalled(t, "SetRead", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing notification", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound)

		_, err := svc.SetRead(ctx, bob, "nope", true)
		assert.ErrorIs(t, err, service.ErrNotFound)
		assert.ErrorIs(t, svc.DeleteNotification(ctx, bob, "nope"), service.ErrNotFound)
	})

	t.Run("Recipient deletes", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("GetByID", ctx, "n1").Return(bobNote, nil)
		repo.On("Delete", ctx, "n1").Return(nil)

		assert.NoError(t, svc.DeleteNotification(ctx, bob, "n1"))
		assert.ErrorIs(t, svc.DeleteNotification(ctx, carol, "n1"), service.ErrForbidden)
		repo.AssertNumberOfCalls(t, "Delete", 1)
	})
}
