package service

import (
	"context"
	"fmt"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"
)

type reminderService struct {
	taskRepo repository.TaskRepository
	notifier NotificationDispatcher
}

func NewReminderService(taskRepo repository.TaskRepository, notifier NotificationDispatcher) ReminderService {
	return &reminderService{taskRepo: taskRepo, notifier: notifier}
}

// SendDeadlineReminders sends one deadline notification per assignee for each
// unfinished task due in [now, now+window). Tasks without assignees remind
// the project creator instead. A task is reminded about once; tasks whose
// notifications could not be stored are left for the next run.
func (s *reminderService) SendDeadlineReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	logger.EnterMethod("reminderService.SendDeadlineReminders", "window", window)

	due, err := s.taskRepo.ListDueBetween(ctx, now, now.Add(window))
	if err != nil {
		logger.ExitMethodWithError("reminderService.SendDeadlineReminders", err)
		return 0, fmt.Errorf("failed to list due tasks: %w", err)
	}

	sent := 0
	reminded := make([]string, 0, len(due))
	for _, d := range due {
		if d.Task.DueDate == nil {
			continue
		}
		recipients := d.Task.Assignees
		if len(recipients) == 0 {
			recipients = []string{d.ProjectCreator}
		}
		notes := s.notifier.NotifyMany(ctx, recipients, NotificationPayload{
			Type:        domain.NotificationTypeDeadline,
			Title:       fmt.Sprintf("Due soon: %s", d.Task.Title),
			Description: fmt.Sprintf("%s in %s is due %s", d.Task.Title, d.ProjectName, d.Task.DueDate.UTC().Format(time.RFC1123)),
			ProjectID:   d.Task.ProjectID,
			TaskID:      d.Task.ID,
			ActionURL:   "/projects/" + d.Task.ProjectID,
			Meta:        map[string]any{"due_date": d.Task.DueDate.UTC().Format(time.RFC3339)},
		})
		if len(notes) > 0 {
			reminded = append(reminded, d.Task.ID)
		}
		sent += len(notes)
	}

	if err := s.taskRepo.MarkReminded(ctx, reminded, now); err != nil {
		logger.ExitMethodWithError("reminderService.SendDeadlineReminders", err, "tasks", len(reminded))
		return sent, fmt.Errorf("failed to mark reminded tasks: %w", err)
	}

	logger.ExitMethod("reminderService.SendDeadlineReminders", "tasks", len(due), "notifications", sent)
	return sent, nil
}
