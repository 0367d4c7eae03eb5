package jobs

import (
	"context"
	"time"

	"collab-deck-backend/internal/logger"
)

// reminderJobTimeout bounds one reminder run.
const reminderJobTimeout = 5 * time.Minute

// SendDeadlineReminders notifies assignees of tasks due within the configured
// window.
func (jr *JobRunner) SendDeadlineReminders() {
	jr.runWithRecovery("SendDeadlineReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
		defer cancel()

		window := jr.config.Scheduler.ReminderWindow()
		sent, err := jr.services.Reminder.SendDeadlineReminders(ctx, jr.now(), window)
		if err != nil {
			logger.Error("Failed to send deadline reminders", "error", err)
			return
		}
		logger.Info("Deadline reminders sent", "notifications", sent, "window", window)
	})
}
