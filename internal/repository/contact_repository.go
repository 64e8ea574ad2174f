package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const contactColumns = `id, name, email, subject, body, read, created_at`

// ContactRepository stores contact messages in Postgres.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new repository instance.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a new message.
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO contact_messages (id, name, email, subject, body, read, created_at)
VALUES (:id, :name, :email, :subject, :body, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// List returns messages newest first.
func (r *ContactRepository) List(ctx context.Context, filter models.ContactFilter) ([]models.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages`
	if filter.UnreadOnly {
		query += ` WHERE read = FALSE`
	}
	limit, _ := pageWindow(1, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	messages := []models.ContactMessage{}
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// MarkRead flags a message as read.
func (r *ContactRepository) MarkRead(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `UPDATE contact_messages SET read = TRUE WHERE id = $1`, "mark contact message read", id)
}

// Delete removes a message.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM contact_messages WHERE id = $1`, "delete contact message", id)
}
