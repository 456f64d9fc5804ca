package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/client"
	"github.com/TWRT/teamwork-tasks/internal/models"
)

var (
	ErrMailNotConfigured = errors.New("email configuration is not set up")
	ErrDeliveryFailed    = errors.New("reminder delivery failed")
)

const DefaultReminderWindowDays = 2

type ReminderStatus string

const (
	ReminderSent          ReminderStatus = "sent"
	ReminderNotConfigured ReminderStatus = "not_configured"
	ReminderFailed        ReminderStatus = "failed"
)

type ReminderResult struct {
	Task   models.Task
	Status ReminderStatus
	Err    error
}

type NotifierConfig struct {
	Credentials client.Credentials
	// Tasks due within this many days (overdue included) get a reminder.
	WindowDays int
}

type reminderSource interface {
	TasksDueWithin(days int) []models.Task
	Member(name string) (models.TeamMember, bool)
}

// Notifier emails reminders for open tasks that are close to or past their
// deadline. Failures are reported per task and never abort a batch.
type Notifier struct {
	source    reminderSource
	transport client.MailTransport
	cfg       NotifierConfig
	logger    zerolog.Logger
}

func NewNotifier(
	source reminderSource,
	transport client.MailTransport,
	cfg NotifierConfig,
	logger zerolog.Logger,
) *Notifier {
	return &Notifier{
		source:    source,
		transport: transport,
		cfg:       cfg,
		logger:    logger,
	}
}

func (n *Notifier) Configured() bool {
	return n.cfg.Credentials.Address != "" && n.cfg.Credentials.Secret != ""
}

// SetCredentials replaces the sender account used for later sends.
func (n *Notifier) SetCredentials(creds client.Credentials) {
	n.cfg.Credentials = creds
	n.logger.Info().
		Str("sender", creds.Address).
		Msg("updated sender credentials")
}

// SendReminderEmail makes one delivery attempt for task. Missing credentials
// yield ErrMailNotConfigured without contacting the transport; transport
// and recipient problems are wrapped in ErrDeliveryFailed.
func (n *Notifier) SendReminderEmail(ctx context.Context, task models.Task) error {
	if !n.Configured() {
		n.logger.Warn().
			Int("task_id", task.ID).
			Msg("email configuration is not set up, skipping reminder")
		return ErrMailNotConfigured
	}

	member, ok := n.source.Member(task.AssignedTo)
	if !ok {
		n.logger.Error().
			Int("task_id", task.ID).
			Str("member", task.AssignedTo).
			Msg("reminder recipient not found")
		return fmt.Errorf("%w: %w: %s", ErrDeliveryFailed, ErrMemberNotFound, task.AssignedTo)
	}

	msg := client.Message{
		ID:      uuid.NewString() + "@teamwork-tasks",
		To:      member.Email,
		Subject: ReminderSubject(task),
		Body:    ReminderBody(task),
	}
	if err := n.transport.Send(ctx, n.cfg.Credentials, msg); err != nil {
		n.logger.Error().
			Err(err).
			Int("task_id", task.ID).
			Str("member", member.Name).
			Msg("failed to send reminder")
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	n.logger.Info().
		Int("task_id", task.ID).
		Str("member", member.Name).
		Str("message_id", msg.ID).
		Msg("sent reminder")
	return nil
}

// SendReminders mails every open task due within the configured window.
func (n *Notifier) SendReminders(ctx context.Context) []ReminderResult {
	tasks := n.source.TasksDueWithin(n.cfg.WindowDays)
	results := make([]ReminderResult, 0, len(tasks))
	for _, t := range tasks {
		res := ReminderResult{Task: t, Status: ReminderSent}
		if err := n.SendReminderEmail(ctx, t); err != nil {
			res.Err = err
			res.Status = ReminderFailed
			if errors.Is(err, ErrMailNotConfigured) {
				res.Status = ReminderNotConfigured
			}
		}
		results = append(results, res)
	}

	n.logger.Info().
		Int("due", len(tasks)).
		Int("window_days", n.cfg.WindowDays).
		Msg("processed reminders")
	return results
}

func ReminderSubject(task models.Task) string {
	return fmt.Sprintf("Reminder: Task '%s' Due Soon", task.Title)
}

func ReminderBody(task models.Task) string {
	return fmt.Sprintf(`Dear %s,

This is a reminder that the following task is due soon:

Title: %s
Description: %s
Deadline: %s
Priority: %s

Please ensure this task is completed on time.

Best regards,
Task Management System
`, task.AssignedTo, task.Title, task.Description, models.FormatDate(task.Deadline), task.Priority)
}
