package models

import "time"

// Tuition holds the fee schedule of a program. One per program.
type Tuition struct {
	ID              string    `db:"id" json:"id"`
	ProgramID       string    `db:"program_id" json:"program_id"`
	AmountPerCredit float64   `db:"amount_per_credit" json:"amount_per_credit"`
	RegistrationFee float64   `db:"registration_fee" json:"registration_fee"`
	Currency        string    `db:"currency" json:"currency"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EstimateTotal returns the fee for the given number of credits.
func (t Tuition) EstimateTotal(credits int) float64 {
	if credits < 0 {
		credits = 0
	}
	return t.RegistrationFee + t.AmountPerCredit*float64(credits)
}
