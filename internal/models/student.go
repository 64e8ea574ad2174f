package models

// StudentDetail is a student account together with the program they are
// currently following, if any.
type StudentDetail struct {
	User
	ProgramID   *string `db:"program_id" json:"program_id,omitempty"`
	ProgramCode *string `db:"program_code" json:"program_code,omitempty"`
	CurrentTerm *string `db:"current_term" json:"current_term,omitempty"`
}
