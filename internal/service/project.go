package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"
)

type projectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	prefRepo    repository.ProjectPreferenceRepository
	notifier    NotificationDispatcher
	now         func() time.Time
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	prefRepo repository.ProjectPreferenceRepository,
	notifier NotificationDispatcher,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		prefRepo:    prefRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *projectService) CreateProject(ctx context.Context, actor domain.Actor, input ProjectInput) (*domain.Project, error) {
	logger.EnterMethod("projectService.CreateProject", "userID", actor.UserID, "name", input.Name)

	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newError(ErrValidation, "project name is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.ProjectPriorityMedium
	}
	if !priority.Valid() {
		return nil, newError(ErrValidation, "unknown priority %q", priority)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, newError(ErrValidation, "end date must not be before start date")
	}

	project := &domain.Project{
		Name:          name,
		Description:   input.Description,
		Status:        domain.ProjectStatusActive,
		Creator:       actor.UserID,
		Collaborators: domain.NormalizeIdentities(input.Collaborators),
		Priority:      priority,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, internalError("projectService.CreateProject", err, "userID", actor.UserID)
	}

	// Best effort: the project is already stored.
	if err := s.prefRepo.Upsert(ctx, domain.CreatorPreference(actor.UserID, project.ID, s.now().UTC())); err != nil {
		logger.Warn("Failed to create creator preference", "projectID", project.ID, "userID", actor.UserID, "error", err)
	}

	recipients := make([]string, 0, len(project.Collaborators))
	for _, c := range project.Collaborators {
		if !domain.ParseIdentity(c).Matches(actor) {
			recipients = append(recipients, c)
		}
	}
	s.notifier.NotifyMany(ctx, recipients, NotificationPayload{
		Type:        domain.NotificationTypeInvite,
		Title:       fmt.Sprintf("Added to project: %s", project.Name),
		Description: fmt.Sprintf("%s: you were added as a collaborator", project.Name),
		CreatedBy:   actor.UserID,
		ProjectID:   project.ID,
		ActionURL:   "/projects/" + project.ID,
	})

	logger.ExitMethod("projectService.CreateProject", "projectID", project.ID)
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	project, err := loadProject(ctx, s.projectRepo, id, "projectService.GetProject")
	if err != nil {
		return nil, err
	}
	if !project.HasMember(actor) {
		return nil, newError(ErrForbidden, "forbidden")
	}
	return project, nil
}

func (s *projectService) ListMyProjects(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	projects, err := s.projectRepo.ListByMember(ctx, actor.IdentityStrings())
	if err != nil {
		return nil, internalError("projectService.ListMyProjects", err, "userID", actor.UserID)
	}
	return projects, nil
}

func (s *projectService) ListMyProjectsWithPreferences(ctx context.Context, actor domain.Actor) ([]domain.UserProject, error) {
	projects, err := s.ListMyProjects(ctx, actor)
	if err != nil {
		return nil, err
	}
	prefs, err := s.prefRepo.ListForUser(ctx, actor.UserID, domain.ProjectIDs(projects))
	if err != nil {
		return nil, internalError("projectService.ListMyProjectsWithPreferences", err, "userID", actor.UserID)
	}
	return domain.MergePreferences(projects, prefs), nil
}

func (s *projectService) Overview(ctx context.Context, actor domain.Actor) (*domain.Overview, error) {
	projects, tasks, err := s.memberWork(ctx, actor, "projectService.Overview")
	if err != nil {
		return nil, err
	}
	return &domain.Overview{
		Projects:       projects,
		RecentProjects: domain.RecentlyCreated(projects, s.now(), domain.RecentProjectAge),
		Tasks:          tasks,
		CompletedTasks: domain.CompletedTasks(tasks),
		Collaborators:  domain.CollaboratorSet(projects),
	}, nil
}

func (s *projectService) ListMyTasks(ctx context.Context, actor domain.Actor) (*domain.MemberTasks, error) {
	projects, tasks, err := s.memberWork(ctx, actor, "projectService.ListMyTasks")
	if err != nil {
		return nil, err
	}
	current := actor.Email
	if current == "" {
		current = actor.UserID
	}
	return &domain.MemberTasks{
		Tasks:         tasks,
		Collaborators: domain.CollaboratorSet(projects),
		CurrentUser:   current,
	}, nil
}

// memberWork loads the actor's projects and every task assigned to them or
// filed under one of those projects.
func (s *projectService) memberWork(ctx context.Context, actor domain.Actor, method string) ([]domain.Project, []domain.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, nil, newError(ErrUnauthorized, "unauthorized")
	}
	identities := actor.IdentityStrings()
	projects, err := s.projectRepo.ListByMember(ctx, identities)
	if err != nil {
		return nil, nil, internalError(method, err, "userID", actor.UserID)
	}
	tasks, err := s.taskRepo.ListForMember(ctx, identities, domain.ProjectIDs(projects))
	if err != nil {
		return nil, nil, internalError(method, err, "userID", actor.UserID)
	}
	return projects, tasks, nil
}
