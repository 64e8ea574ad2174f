package models

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        string    `db:"id" json:"id" dynamodbav:"id"`
	Name      string    `db:"name" json:"name" dynamodbav:"name"`
	Email     string    `db:"email" json:"email" dynamodbav:"email"`
	Subject   string    `db:"subject" json:"subject" dynamodbav:"subject"`
	Body      string    `db:"body" json:"message" dynamodbav:"body"`
	Read      bool      `db:"read" json:"read" dynamodbav:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at" dynamodbav:"created_at"`
}

// ContactFilter scopes inbox listings.
type ContactFilter struct {
	UnreadOnly bool
	Limit      int
}
