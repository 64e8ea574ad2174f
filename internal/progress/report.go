package progress

import "github.com/noah-isme/sis-api/internal/models"

// Input bundles the three read collections for one student.
type Input struct {
	Enrollments      []models.Enrollment
	Catalog          []models.Course
	Structure        *models.ProgramStructure
	CurrentTermLabel string
}

// Report is the full progress view returned to clients.
type Report struct {
	Overview    Overview   `json:"overview"`
	CurrentTerm string     `json:"currentTerm"`
	Terms       []TermView `json:"terms"`
}

// Compute runs the overview and term calculations for one student.
func Compute(in Input, isSaving bool) Report {
	terms := BuildTermsView(in.Structure, in.Catalog, in.Enrollments, in.CurrentTermLabel)
	return Report{
		Overview:    ComputeOverview(in.Enrollments, in.Catalog),
		CurrentTerm: in.CurrentTermLabel,
		Terms:       ApplyEnrollGate(terms, isSaving),
	}
}
