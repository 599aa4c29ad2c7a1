package fhir

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge-ai/notefhir/pkg/common/models"
)

const (
	systemConditionClinical = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	systemConditionVerStat  = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
	systemBundleIdentifier  = "urn:ietf:rfc:3986"
)

var ErrUnknownCategory = errors.New("unknown entity category")

// Mapper builds FHIR R4 resources from extracted entities. Mapping is pure
// aside from id and timestamp generation.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) Map(entity models.ExtractedEntity, patientID string) (interface{}, error) {
	switch entity.Category {
	case models.CategoryCondition:
		return m.mapCondition(entity, patientID), nil
	case models.CategoryMedication:
		return m.mapMedicationStatement(entity, patientID), nil
	case models.CategoryProcedure:
		return m.mapProcedure(entity, patientID), nil
	default:
		return nil, ErrUnknownCategory
	}
}

func (m *Mapper) mapCondition(entity models.ExtractedEntity, patientID string) *Condition {
	return &Condition{
		ResourceType: "Condition",
		ID:           uuid.New().String(),
		ClinicalStatus: &CodeableConcept{
			Coding: []Coding{{System: systemConditionClinical, Code: "active"}},
		},
		VerificationStatus: &CodeableConcept{
			Coding: []Coding{{System: systemConditionVerStat, Code: "confirmed"}},
		},
		Code:         entityConcept(entity),
		Subject:      patientReference(patientID),
		RecordedDate: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m *Mapper) mapMedicationStatement(entity models.ExtractedEntity, patientID string) *MedicationStatement {
	return &MedicationStatement{
		ResourceType:              "MedicationStatement",
		ID:                        uuid.New().String(),
		Status:                    "active",
		MedicationCodeableConcept: entityConcept(entity),
		Subject:                   patientReference(patientID),
		DateAsserted:              time.Now().UTC().Format(time.RFC3339),
	}
}

func (m *Mapper) mapProcedure(entity models.ExtractedEntity, patientID string) *Procedure {
	return &Procedure{
		ResourceType:      "Procedure",
		ID:                uuid.New().String(),
		Status:            "completed",
		Code:              entityConcept(entity),
		Subject:           patientReference(patientID),
		PerformedDateTime: time.Now().UTC().Format(time.RFC3339),
	}
}

// Bundle wraps resources into a collection bundle. Entry order follows the
// resource order handed in.
func (m *Mapper) Bundle(resources []interface{}) *Bundle {
	bundle := &Bundle{
		ResourceType: "Bundle",
		ID:           uuid.New().String(),
		Identifier: &Identifier{
			System: systemBundleIdentifier,
			Value:  "urn:uuid:" + uuid.New().String(),
		},
		Type:      "collection",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for _, resource := range resources {
		bundle.Entry = append(bundle.Entry, BundleEntry{
			FullURL:  "urn:uuid:" + uuid.New().String(),
			Resource: resource,
		})
	}

	return bundle
}

func entityConcept(entity models.ExtractedEntity) *CodeableConcept {
	concept := &CodeableConcept{Text: entity.Text}
	if entity.Code != nil {
		concept.Coding = []Coding{{
			System:  entity.Code.System,
			Code:    entity.Code.Code,
			Display: entity.Code.Display,
		}}
	}
	return concept
}

func patientReference(patientID string) *Reference {
	return &Reference{Reference: "Patient/" + patientID}
}
