package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/google/uuid"
)

// tokenAttempts bounds retries when a freshly generated token collides with
// an existing one.
const tokenAttempts = 3

type inviteService struct {
	inviteRepo  repository.InviteRepository
	projectRepo repository.ProjectRepository
	email       EmailSender
	notifier    NotificationDispatcher
	appURL      string
	now         func() time.Time
	newToken    func() string
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	projectRepo repository.ProjectRepository,
	email EmailSender,
	notifier NotificationDispatcher,
	appURL string,
) InviteService {
	return &inviteService{
		inviteRepo:  inviteRepo,
		projectRepo: projectRepo,
		email:       email,
		notifier:    notifier,
		appURL:      strings.TrimRight(appURL, "/"),
		now:         func() time.Time { return time.Now().UTC() },
		newToken:    uuid.NewString,
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, actor domain.Actor, projectID, email, message string) (*domain.Invite, error) {
	logger.EnterMethod("inviteService.CreateInvite", "userID", actor.UserID, "projectID", projectID, "email", email)

	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	projectID = strings.TrimSpace(projectID)
	email = domain.NormalizeEmail(email)
	if projectID == "" || email == "" {
		return nil, newError(ErrValidation, "projectId and email required")
	}
	if !strings.Contains(email, "@") {
		return nil, newError(ErrValidation, "invalid email address")
	}

	project, err := loadProject(ctx, s.projectRepo, projectID, "inviteService.CreateInvite")
	if err != nil {
		return nil, err
	}
	if !project.HasMember(actor) {
		logger.Warn("Invite denied: actor is not a project member", "userID", actor.UserID, "projectID", projectID)
		return nil, newError(ErrForbidden, "forbidden")
	}

	invite := &domain.Invite{
		ProjectID: project.ID,
		Email:     email,
		Inviter:   actor.UserID,
		Message:   strings.TrimSpace(message),
	}
	for attempt := 1; ; attempt++ {
		invite.ID = ""
		invite.Token = s.newToken()
		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt == tokenAttempts {
			return nil, internalError("inviteService.CreateInvite", err, "projectID", projectID)
		}
		logger.Warn("Invite token collision, retrying", "attempt", attempt)
	}

	if res := s.email.Send(ctx, inviteEmail(s.appURL, project, invite)); !res.Success {
		logger.Error("Failed to send invite email", "inviteID", invite.ID, "email", invite.Email,
			"provider", res.Provider, "reason", res.Error, "details", res.Details)
	}

	description := invite.Message
	if description == "" {
		description = fmt.Sprintf("You were invited to %s", project.Name)
	}
	s.notifier.Notify(ctx, invite.Email, NotificationPayload{
		Type:        domain.NotificationTypeInvite,
		Title:       fmt.Sprintf("Invitation: %s", project.Name),
		Description: description,
		CreatedBy:   actor.UserID,
		ProjectID:   project.ID,
		ActionURL:   AcceptInviteURL(s.appURL, invite.Token),
	})

	logger.ExitMethod("inviteService.CreateInvite", "inviteID", invite.ID)
	return invite, nil
}

// ResendInvite re-sends the original token. Unlike CreateInvite, a failed
// delivery is reported to the caller.
func (s *inviteService) ResendInvite(ctx context.Context, actor domain.Actor, inviteID string) error {
	logger.EnterMethod("inviteService.ResendInvite", "userID", actor.UserID, "inviteID", inviteID)

	invite, err := s.ownedInvite(ctx, actor, inviteID, "inviteService.ResendInvite")
	if err != nil {
		return err
	}
	if invite.Accepted {
		return newError(ErrInvalidState, "invite already accepted")
	}

	project, err := loadProject(ctx, s.projectRepo, invite.ProjectID, "inviteService.ResendInvite")
	if err != nil {
		return err
	}

	res := s.email.Send(ctx, inviteEmail(s.appURL, project, invite))
	if !res.Success {
		logger.ExitMethodWithError("inviteService.ResendInvite", ErrDeliveryFailure,
			"inviteID", invite.ID, "reason", res.Error, "details", res.Details)
		return newError(ErrDeliveryFailure, "failed to send email")
	}

	logger.ExitMethod("inviteService.ResendInvite", "inviteID", invite.ID, "provider", res.Provider)
	return nil
}

// CancelInvite hard-deletes a pending invite. Accepted invites stay as the
// record of who joined.
func (s *inviteService) CancelInvite(ctx context.Context, actor domain.Actor, inviteID string) error {
	logger.EnterMethod("inviteService.CancelInvite", "userID", actor.UserID, "inviteID", inviteID)

	invite, err := s.ownedInvite(ctx, actor, inviteID, "inviteService.CancelInvite")
	if err != nil {
		return err
	}
	if invite.Accepted {
		return newError(ErrInvalidState, "invite already accepted")
	}

	if err := s.inviteRepo.Delete(ctx, invite.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "invite not found")
		}
		return internalError("inviteService.CancelInvite", err, "inviteID", invite.ID)
	}

	logger.ExitMethod("inviteService.CancelInvite", "inviteID", invite.ID)
	return nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, actor domain.Actor, token string) (*domain.Project, error) {
	logger.EnterMethod("inviteService.AcceptInvite", "userID", actor.UserID)

	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(ErrValidation, "token required")
	}

	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "invite not found")
		}
		return nil, internalError("inviteService.AcceptInvite", err)
	}
	if invite.Accepted {
		return nil, newError(ErrInvalidState, "invite already accepted")
	}
	if !invite.AddressedTo(actor.Email) {
		logger.Warn("Invite email mismatch", "inviteID", invite.ID, "userID", actor.UserID)
		return nil, newError(ErrForbidden, "invite email does not match authenticated user")
	}

	project, err := loadProject(ctx, s.projectRepo, invite.ProjectID, "inviteService.AcceptInvite")
	if err != nil {
		return nil, err
	}

	entry := domain.NormalizeEmail(actor.Email)
	added, err := s.projectRepo.AddCollaborator(ctx, project.ID, entry, actor.IdentityStrings())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "project not found")
		}
		return nil, internalError("inviteService.AcceptInvite", err, "projectID", project.ID)
	}
	if added {
		project.Collaborators = append(project.Collaborators, entry)
	}

	now := s.now()
	acceptedBy := actor.UserID
	invite.Accepted = true
	invite.AcceptedBy = &acceptedBy
	invite.AcceptedAt = &now
	if err := s.inviteRepo.MarkAccepted(ctx, invite); err != nil {
		if errors.Is(err, repository.ErrAlreadyAccepted) {
			return nil, newError(ErrInvalidState, "invite already accepted")
		}
		return nil, internalError("inviteService.AcceptInvite", err, "inviteID", invite.ID)
	}

	s.notifier.Notify(ctx, project.Creator, NotificationPayload{
		Type:        domain.NotificationTypeUpdate,
		Title:       fmt.Sprintf("%s joined %s", entry, project.Name),
		Description: fmt.Sprintf("%s accepted the invitation and joined the project", entry),
		CreatedBy:   actor.UserID,
		ProjectID:   project.ID,
		ActionURL:   "/projects/" + project.ID,
	})

	logger.ExitMethod("inviteService.AcceptInvite", "inviteID", invite.ID, "projectID", project.ID, "added", added)
	return project, nil
}

func (s *inviteService) ListOutgoingInvites(ctx context.Context, actor domain.Actor) ([]domain.Invite, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	invites, err := s.inviteRepo.ListByInviter(ctx, actor.UserID)
	if err != nil {
		return nil, internalError("inviteService.ListOutgoingInvites", err, "userID", actor.UserID)
	}
	return invites, nil
}

// ownedInvite loads an invite and checks the actor sent it.
func (s *inviteService) ownedInvite(ctx context.Context, actor domain.Actor, inviteID, method string) (*domain.Invite, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "invite not found")
		}
		return nil, internalError(method, err, "inviteID", inviteID)
	}
	if !invite.SentBy(actor) {
		return nil, newError(ErrForbidden, "forbidden")
	}
	return invite, nil
}

func loadProject(ctx context.Context, projectRepo repository.ProjectRepository, id, method string) (*domain.Project, error) {
	project, err := projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "project not found")
		}
		return nil, internalError(method, err, "projectID", id)
	}
	return project, nil
}
