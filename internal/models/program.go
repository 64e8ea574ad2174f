package models

import "time"

// Program is an academic program students can join.
type Program struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Level         string    `db:"level" json:"level"`
	DurationTerms int       `db:"duration_terms" json:"duration_terms"`
	TotalCredits  int       `db:"total_credits" json:"total_credits"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProgramFilter captures list filters for programs.
type ProgramFilter struct {
	Search    string
	Level     string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
