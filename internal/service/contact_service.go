package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
)

// ContactStore persists contact messages. Implemented by the Postgres and
// DynamoDB repositories.
type ContactStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, filter models.ContactFilter) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"message" validate:"required,max=5000"`
}

// ContactService stores contact messages and queues admin notifications.
type ContactService struct {
	store     ContactStore
	queue     jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService constructs the service. queue may be nil.
func NewContactService(store ContactStore, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{store: store, queue: queue, validator: validate, logger: logger}
}

// Submit stores a message and queues a notification. A queue failure does not
// fail the submission.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid contact payload")
	}
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Body:    req.Body,
	}
	if err := s.store.Create(ctx, msg); err != nil {
		return nil, writeError(err, "contact message already exists", "contact message not found", "failed to store contact message")
	}
	enqueueNotification(s.queue, s.logger, JobContactNotify, msg.ID, *msg)
	return msg, nil
}

// List returns the inbox.
func (s *ContactService) List(ctx context.Context, filter models.ContactFilter) ([]models.ContactMessage, error) {
	messages, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list contact messages")
	}
	return messages, nil
}

// MarkRead flags a message as read.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	if err := s.store.MarkRead(ctx, id); err != nil {
		return lookupError(err, "contact message not found", "failed to update contact message")
	}
	return nil
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return lookupError(err, "contact message not found", "failed to delete contact message")
	}
	return nil
}
