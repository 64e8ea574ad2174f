package models

import "time"

// AdmissionStatus tracks an application through review.
type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "pending"
	AdmissionAccepted AdmissionStatus = "accepted"
	AdmissionRejected AdmissionStatus = "rejected"
)

// Admission is a public application to a program.
type Admission struct {
	ID        string          `db:"id" json:"id"`
	FullName  string          `db:"full_name" json:"full_name"`
	Email     string          `db:"email" json:"email"`
	Phone     string          `db:"phone" json:"phone"`
	ProgramID string          `db:"program_id" json:"program_id"`
	Message   string          `db:"message" json:"message"`
	Status    AdmissionStatus `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// AdmissionFilter scopes admission listings.
type AdmissionFilter struct {
	ProgramID string
	Status    AdmissionStatus
	Page      int
	PageSize  int
}
