package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CourseRef places a catalog course inside a term. Code and title are cached
// at write time so a deleted catalog entry still renders.
type CourseRef struct {
	CourseID    string `json:"course_id"`
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	Order       int    `json:"order"`
}

// StructureTerm is one academic period of a program.
type StructureTerm struct {
	TermName string      `json:"term_name"`
	Courses  []CourseRef `json:"courses"`
}

// StructureTerms is persisted as JSONB.
type StructureTerms []StructureTerm

// Value marshals terms to JSON for persistence.
func (t StructureTerms) Value() (driver.Value, error) {
	if t == nil {
		t = StructureTerms{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal structure terms: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the terms slice.
func (t *StructureTerms) Scan(value interface{}) error {
	if value == nil {
		*t = StructureTerms{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StructureTerms", value)
	}
	if len(data) == 0 {
		*t = StructureTerms{}
		return nil
	}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("unmarshal structure terms: %w", err)
	}
	return nil
}

// ProgramStructure is the ordered assignment of catalog courses to terms for one program.
type ProgramStructure struct {
	ProgramID string         `db:"program_id" json:"program_id"`
	Terms     StructureTerms `db:"terms" json:"terms"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// FirstTermName returns the name of the first term, or "" for an empty structure.
func (s *ProgramStructure) FirstTermName() string {
	if s == nil || len(s.Terms) == 0 {
		return ""
	}
	return s.Terms[0].TermName
}

// FindTerm returns the term with the given name.
func (s *ProgramStructure) FindTerm(name string) (*StructureTerm, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Terms {
		if s.Terms[i].TermName == name {
			return &s.Terms[i], true
		}
	}
	return nil, false
}
