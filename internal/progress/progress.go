// Package progress derives a student's academic overview and per-course
// enrollment eligibility from enrollment records, the course catalog and the
// program's term structure. Every function is pure and never fails: absent or
// malformed inputs degrade to zero values.
package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/sis-api/internal/models"
)

// CompletionCredits is the fixed number of credits needed to finish a program.
const CompletionCredits = 60

// Overview aggregates credits and GPA for one student.
type Overview struct {
	TotalCredits     int     `json:"totalCredits"`
	CompletedCredits int     `json:"completedCredits"`
	RemainingCredits int     `json:"remainingCredits"`
	GPA              float64 `json:"gpa"`
}

// ComputeOverview joins enrollments to the catalog and sums credits and grade
// points. A nil enrollments or catalog slice yields the zero overview.
func ComputeOverview(enrollments []models.Enrollment, catalog []models.Course) Overview {
	if enrollments == nil || catalog == nil {
		return Overview{RemainingCredits: CompletionCredits}
	}

	credits := creditIndex(catalog)

	var (
		total, completed int
		points           float64
		completedCount   int
	)
	for _, e := range enrollments {
		c := credits[e.CourseID]
		if e.IsActiveOrDone() {
			total += c
		}
		if e.IsDone() {
			completed += c
			points += gradePoints(e.GradePoints)
			completedCount++
		}
	}

	var gpa float64
	if completedCount > 0 {
		gpa = round2(points / float64(completedCount))
	}

	remaining := CompletionCredits - total
	if remaining < 0 {
		remaining = 0
	}

	return Overview{
		TotalCredits:     total,
		CompletedCredits: completed,
		RemainingCredits: remaining,
		GPA:              gpa,
	}
}

// ExtractTermNumber returns the first run of decimal digits in label, or 0.
// "Winter 2026 Term 4" yields 2026.
func ExtractTermNumber(label string) int {
	start := strings.IndexFunc(label, isDigit)
	if start < 0 {
		return 0
	}
	end := start
	for end < len(label) && isDigit(rune(label[end])) {
		end++
	}
	n, err := strconv.Atoi(label[start:end])
	if err != nil {
		// digit run overflows int
		return math.MaxInt
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func creditIndex(catalog []models.Course) map[string]int {
	idx := make(map[string]int, len(catalog))
	for _, c := range catalog {
		if _, ok := idx[c.ID]; ok {
			continue
		}
		credits := c.Credits
		if credits < 0 {
			credits = 0
		}
		idx[c.ID] = credits
	}
	return idx
}

func gradePoints(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// round2 rounds half-up at the second decimal of the shortest decimal
// representation of v, so 1.005 becomes 1.01.
func round2(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 2 {
		return v
	}
	cents, err := strconv.ParseInt(whole+frac[:2], 10, 64)
	if err != nil {
		return v
	}
	if frac[2] >= '5' {
		cents++
	}
	out := float64(cents) / 100
	if v < 0 {
		out = -out
	}
	return out
}
