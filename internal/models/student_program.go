package models

import "time"

// StudentProgramStatus is the lifecycle of a student's membership in a program.
type StudentProgramStatus string

const (
	StudentProgramActive    StudentProgramStatus = "active"
	StudentProgramCompleted StudentProgramStatus = "completed"
	StudentProgramWithdrawn StudentProgramStatus = "withdrawn"
)

// StudentProgram links a student to a program and tracks the current term.
// At most one active record exists per student.
type StudentProgram struct {
	ID          string               `db:"id" json:"id"`
	StudentID   string               `db:"student_id" json:"student_id"`
	ProgramID   string               `db:"program_id" json:"program_id"`
	CurrentTerm string               `db:"current_term" json:"current_term"`
	Status      StudentProgramStatus `db:"status" json:"status"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}
