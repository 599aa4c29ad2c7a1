package models

import (
	"time"
)

// Conversion API models
type ConvertRequest struct {
	ClinicalNote string `json:"clinical_note"`
	PatientID    string `json:"patient_id,omitempty"`
}

type Category string

const (
	CategoryCondition  Category = "condition"
	CategoryMedication Category = "medication"
	CategoryProcedure  Category = "procedure"
)

// EntityCode is a normalized code resolved from the terminology catalog.
type EntityCode struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type ExtractedEntity struct {
	Text       string      `json:"text"`
	Category   Category    `json:"category"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Confidence float64     `json:"confidence"`
	Code       *EntityCode `json:"code,omitempty"`
	Negated    bool        `json:"negated,omitempty"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // conversion
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
