package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/mailer"
)

// Job types handled by NotificationService.
const (
	JobContactNotify   = "contact.notify"
	JobAdmissionNotify = "admission.notify"
)

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// NotificationService turns queued jobs into emails to the admin inbox.
type NotificationService struct {
	sender     mailer.Sender
	recipients []mail.Address
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewNotificationService constructs the service. Invalid recipient addresses are skipped.
func NewNotificationService(sender mailer.Sender, recipients []string, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	addrs := make([]mail.Address, 0, len(recipients))
	for _, r := range recipients {
		addr, err := mail.ParseAddress(r)
		if err != nil {
			logger.Warn("skipping invalid notification recipient", zap.String("recipient", r), zap.Error(err))
			continue
		}
		addrs = append(addrs, *addr)
	}
	return &NotificationService{sender: sender, recipients: addrs, metrics: metrics, logger: logger}
}

// Handle delivers one job. It is used as the jobs.Handler of the notification queue.
func (s *NotificationService) Handle(ctx context.Context, job jobs.Job) error {
	msg, err := s.compose(job)
	if err != nil {
		s.logger.Error("dropping notification job", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}
	if len(msg.To) == 0 {
		s.logger.Debug("no notification recipients configured", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.RecordNotification(false)
		return fmt.Errorf("send %s: %w", job.Type, err)
	}
	s.metrics.RecordNotification(true)
	return nil
}

func (s *NotificationService) compose(job jobs.Job) (mailer.Message, error) {
	switch job.Type {
	case JobContactNotify:
		msg, ok := job.Payload.(models.ContactMessage)
		if !ok {
			return mailer.Message{}, fmt.Errorf("unexpected payload %T", job.Payload)
		}
		var body strings.Builder
		fmt.Fprintf(&body, "From: %s <%s>\n", msg.Name, msg.Email)
		fmt.Fprintf(&body, "Subject: %s\n\n%s\n", msg.Subject, msg.Body)
		return mailer.Message{
			To:      s.recipients,
			Subject: "New contact message: " + msg.Subject,
			Text:    body.String(),
		}, nil
	case JobAdmissionNotify:
		app, ok := job.Payload.(models.Admission)
		if !ok {
			return mailer.Message{}, fmt.Errorf("unexpected payload %T", job.Payload)
		}
		var body strings.Builder
		fmt.Fprintf(&body, "Applicant: %s <%s>\n", app.FullName, app.Email)
		if app.Phone != "" {
			fmt.Fprintf(&body, "Phone: %s\n", app.Phone)
		}
		fmt.Fprintf(&body, "Program: %s\n\n%s\n", app.ProgramID, app.Message)
		return mailer.Message{
			To:      s.recipients,
			Subject: "New admission application from " + app.FullName,
			Text:    body.String(),
		}, nil
	default:
		return mailer.Message{}, fmt.Errorf("unknown job type %q", job.Type)
	}
}

func enqueueNotification(q jobEnqueuer, logger *zap.Logger, jobType, id string, payload interface{}) {
	if q == nil {
		return
	}
	if err := q.Enqueue(jobs.Job{ID: id, Type: jobType, Payload: payload}); err != nil {
		logger.Warn("failed to enqueue notification", zap.String("type", jobType), zap.String("id", id), zap.Error(err))
	}
}
