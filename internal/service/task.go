package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"
)

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	notifier    NotificationDispatcher
}

func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, notifier NotificationDispatcher) TaskService {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo, notifier: notifier}
}

func (s *taskService) CreateTask(ctx context.Context, actor domain.Actor, input TaskInput) (*domain.Task, error) {
	logger.EnterMethod("taskService.CreateTask", "userID", actor.UserID, "projectID", input.ProjectID)

	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	title := strings.TrimSpace(input.Title)
	if input.ProjectID == "" || title == "" {
		return nil, newError(ErrValidation, "projectId and title are required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, newError(ErrValidation, "unknown priority %q", priority)
	}

	project, err := s.memberProject(ctx, actor, input.ProjectID, "taskService.CreateTask")
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		ProjectID:   project.ID,
		Title:       title,
		Description: input.Description,
		Assignees:   domain.NormalizeIdentities(input.Assignees),
		Priority:    priority,
		DueDate:     input.DueDate,
		Status:      domain.TaskStatusTodo,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, internalError("taskService.CreateTask", err, "projectID", project.ID)
	}

	recipients := make([]string, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		if !domain.ParseIdentity(a).Matches(actor) {
			recipients = append(recipients, a)
		}
	}
	s.notifier.NotifyMany(ctx, recipients, NotificationPayload{
		Type:        domain.NotificationTypeAssignment,
		Title:       fmt.Sprintf("New task: %s", task.Title),
		Description: fmt.Sprintf("You were assigned to %s in %s", task.Title, project.Name),
		CreatedBy:   actor.UserID,
		ProjectID:   project.ID,
		TaskID:      task.ID,
		ActionURL:   "/projects/" + project.ID,
	})

	logger.ExitMethod("taskService.CreateTask", "taskID", task.ID)
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, actor domain.Actor, projectID string) ([]domain.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	if projectID == "" {
		return nil, newError(ErrValidation, "projectId is required")
	}
	if _, err := s.memberProject(ctx, actor, projectID, "taskService.ListTasks"); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, internalError("taskService.ListTasks", err, "projectID", projectID)
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	task, err := s.loadTask(ctx, id, "taskService.GetTask")
	if err != nil {
		return nil, err
	}
	if _, err := s.memberProject(ctx, actor, task.ProjectID, "taskService.GetTask"); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a board move or edit. Concurrent updates are last write
// wins.
func (s *taskService) UpdateTask(ctx context.Context, actor domain.Actor, id string, update domain.TaskUpdate) (*domain.Task, error) {
	logger.EnterMethod("taskService.UpdateTask", "userID", actor.UserID, "taskID", id)

	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, newError(ErrValidation, "unknown status %q", *update.Status)
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, newError(ErrValidation, "unknown priority %q", *update.Priority)
	}

	task, err := s.loadTask(ctx, id, "taskService.UpdateTask")
	if err != nil {
		return nil, err
	}
	if _, err := s.memberProject(ctx, actor, task.ProjectID, "taskService.UpdateTask"); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return task, nil
	}

	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "task not found")
		}
		return nil, internalError("taskService.UpdateTask", err, "taskID", id)
	}

	logger.ExitMethod("taskService.UpdateTask", "taskID", id, "status", task.Status)
	return task, nil
}

func (s *taskService) loadTask(ctx context.Context, id, method string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "task not found")
		}
		return nil, internalError(method, err, "taskID", id)
	}
	return task, nil
}

func (s *taskService) memberProject(ctx context.Context, actor domain.Actor, projectID, method string) (*domain.Project, error) {
	project, err := loadProject(ctx, s.projectRepo, projectID, method)
	if err != nil {
		return nil, err
	}
	if !project.HasMember(actor) {
		return nil, newError(ErrForbidden, "forbidden")
	}
	return project, nil
}
