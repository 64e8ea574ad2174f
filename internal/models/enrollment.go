package models

import "time"

// EnrollmentStatus is the status string stored on a course enrollment.
type EnrollmentStatus string

const (
	EnrollmentRegistered EnrollmentStatus = "registered"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// Enrollment is one student attempt at one course. The Completed flag and the
// Status string are tracked separately and either can mark the course done.
type Enrollment struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	ProgramID    string           `db:"program_id" json:"program_id"`
	CourseID     string           `db:"course_id" json:"course_id"`
	Term         string           `db:"term" json:"term"`
	Status       EnrollmentStatus `db:"status" json:"status"`
	Completed    bool             `db:"completed" json:"completed"`
	NumericGrade *float64         `db:"numeric_grade" json:"numeric_grade,omitempty"`
	LetterGrade  *string          `db:"letter_grade" json:"letter_grade,omitempty"`
	GradePoints  *float64         `db:"grade_points" json:"grade_points,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// IsDone reports whether the record counts as completed.
func (e Enrollment) IsDone() bool {
	return e.Status == EnrollmentCompleted || e.Completed
}

// IsActiveOrDone reports whether the record counts towards attempted credits.
func (e Enrollment) IsActiveOrDone() bool {
	return e.Status == EnrollmentRegistered || e.IsDone()
}

// EnrollmentFilter scopes enrollment listings.
type EnrollmentFilter struct {
	StudentID string
	ProgramID string
	Term      string
}
