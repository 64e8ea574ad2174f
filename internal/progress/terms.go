package progress

import (
	"sort"

	"github.com/noah-isme/sis-api/internal/models"
)

// Temporal places a term relative to the student's current term.
type Temporal string

const (
	TemporalPast    Temporal = "past"
	TemporalCurrent Temporal = "current"
	TemporalFuture  Temporal = "future"
)

// Status labels, in priority order.
const (
	LabelCompleted   = "Completed"
	LabelEnrolled    = "Enrolled"
	LabelInactive    = "Inactive"
	LabelNotEnrolled = "Not enrolled"
)

// CourseStatus is the display classification of one course.
type CourseStatus struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

// CourseView is a catalog course placed in a term and enriched with the
// student's state for it.
type CourseView struct {
	CourseID    string       `json:"courseId"`
	Code        string       `json:"code"`
	Title       string       `json:"title"`
	Credits     int          `json:"credits"`
	Instructor  string       `json:"instructor,omitempty"`
	Order       int          `json:"order"`
	Synthesized bool         `json:"synthesized,omitempty"`
	IsEnrolled  bool         `json:"isEnrolled"`
	Status      CourseStatus `json:"status"`
	CanEnroll   bool         `json:"canEnroll"`
}

// TermView is one term of the program structure as seen by the student.
type TermView struct {
	TermName   string       `json:"termName"`
	TermNumber int          `json:"termNumber"`
	Temporal   Temporal     `json:"temporal"`
	Courses    []CourseView `json:"courses"`
}

// IsCurrent reports whether the term accepts new enrollments.
func (t TermView) IsCurrent() bool { return t.Temporal == TemporalCurrent }

// IsFuture reports whether the term lies after the current one.
func (t TermView) IsFuture() bool { return t.Temporal == TemporalFuture }

// ClassifyTerm compares the numbers embedded in both labels.
func ClassifyTerm(termName, currentTermLabel string) Temporal {
	term := ExtractTermNumber(termName)
	current := ExtractTermNumber(currentTermLabel)
	switch {
	case term > current:
		return TemporalFuture
	case term < current:
		return TemporalPast
	default:
		return TemporalCurrent
	}
}

// BuildTermsView renders the structure's terms in source order with courses
// sorted by their order field. Status is filled in; CanEnroll is left false
// until ApplyEnrollGate runs.
func BuildTermsView(structure *models.ProgramStructure, catalog []models.Course, enrollments []models.Enrollment, currentTermLabel string) []TermView {
	if structure == nil {
		return []TermView{}
	}

	courses := make(map[string]models.Course, len(catalog))
	for _, c := range catalog {
		if _, ok := courses[c.ID]; !ok {
			courses[c.ID] = c
		}
	}

	views := make([]TermView, 0, len(structure.Terms))
	for _, term := range structure.Terms {
		refs := make([]models.CourseRef, len(term.Courses))
		copy(refs, term.Courses)
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].Order < refs[j].Order })

		temporal := ClassifyTerm(term.TermName, currentTermLabel)
		view := TermView{
			TermName:   term.TermName,
			TermNumber: ExtractTermNumber(term.TermName),
			Temporal:   temporal,
			Courses:    make([]CourseView, 0, len(refs)),
		}

		for _, ref := range refs {
			cv := CourseView{CourseID: ref.CourseID, Order: ref.Order}
			if c, ok := courses[ref.CourseID]; ok {
				cv.Code = c.Code
				cv.Title = c.Title
				cv.Credits = c.Credits
				cv.Instructor = c.Instructor
			} else {
				cv.Code = ref.CourseCode
				cv.Title = ref.CourseTitle
				cv.Synthesized = true
			}

			record := MatchEnrollment(enrollments, ref.CourseID)
			cv.IsEnrolled = IsEnrolled(enrollments, ref.CourseID)
			cv.Status = ComputeCourseStatus(record, cv.IsEnrolled, temporal == TemporalFuture)
			view.Courses = append(view.Courses, cv)
		}
		views = append(views, view)
	}
	return views
}

// ApplyEnrollGate sets CanEnroll on every course of the given terms.
func ApplyEnrollGate(terms []TermView, isSaving bool) []TermView {
	for i := range terms {
		current := terms[i].IsCurrent()
		for j := range terms[i].Courses {
			c := &terms[i].Courses[j]
			c.CanEnroll = CanEnroll(current, c.IsEnrolled, isSaving, c.Status.Label)
		}
	}
	return terms
}

// IsEnrolled reports whether any record for the course is registered or done.
func IsEnrolled(enrollments []models.Enrollment, courseID string) bool {
	for _, e := range enrollments {
		if e.CourseID == courseID && e.IsActiveOrDone() {
			return true
		}
	}
	return false
}

// MatchEnrollment picks the record that describes the student's state for a
// course: a completed record wins over a registered one, which wins over any
// other record.
func MatchEnrollment(enrollments []models.Enrollment, courseID string) *models.Enrollment {
	var active, other *models.Enrollment
	for i := range enrollments {
		e := &enrollments[i]
		if e.CourseID != courseID {
			continue
		}
		switch {
		case e.IsDone():
			return e
		case e.IsActiveOrDone():
			if active == nil {
				active = e
			}
		default:
			if other == nil {
				other = e
			}
		}
	}
	if active != nil {
		return active
	}
	return other
}

// ComputeCourseStatus classifies a course. First match wins: a completed
// record, then an enrollment, then a future term.
func ComputeCourseStatus(enrollment *models.Enrollment, isEnrolled, isFutureTerm bool) CourseStatus {
	switch {
	case enrollment != nil && enrollment.IsDone():
		return CourseStatus{Label: LabelCompleted, Category: "completed"}
	case isEnrolled:
		return CourseStatus{Label: LabelEnrolled, Category: "enrolled"}
	case isFutureTerm:
		return CourseStatus{Label: LabelInactive, Category: "inactive"}
	default:
		return CourseStatus{Label: LabelNotEnrolled, Category: "not_enrolled"}
	}
}

// CanEnroll gates the enrollment action. Only the current term accepts new
// enrollments.
func CanEnroll(isCurrentTerm, isEnrolled, isSaving bool, statusLabel string) bool {
	return isCurrentTerm && !isEnrolled && !isSaving && statusLabel != LabelCompleted
}
