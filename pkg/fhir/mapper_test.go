package fhir

import (
	"reflect"
	"strings"
	"testing"

	"github.com/medbridge-ai/notefhir/pkg/common/models"
)

func conditionEntity() models.ExtractedEntity {
	return models.ExtractedEntity{
		Text:       "diabetes",
		Category:   models.CategoryCondition,
		Start:      12,
		End:        20,
		Confidence: 0.7,
		Code: &models.EntityCode{
			System:  "http://snomed.info/sct",
			Code:    "73211009",
			Display: "Diabetes mellitus",
		},
	}
}

func TestMapCondition(t *testing.T) {
	m := NewMapper()

	resource, err := m.Map(conditionEntity(), "P1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	condition, ok := resource.(*Condition)
	if !ok {
		t.Fatalf("expected *Condition, got %T", resource)
	}
	if condition.ResourceType != "Condition" {
		t.Fatalf("unexpected resourceType %s", condition.ResourceType)
	}
	if condition.ID == "" {
		t.Fatal("expected generated id")
	}
	if condition.Code.Text != "diabetes" {
		t.Fatalf("expected entity text as display, got %s", condition.Code.Text)
	}
	if len(condition.Code.Coding) != 1 || condition.Code.Coding[0].Code != "73211009" {
		t.Fatalf("expected SNOMED coding, got %+v", condition.Code.Coding)
	}
	if condition.Subject.Reference != "Patient/P1234" {
		t.Fatalf("unexpected subject %s", condition.Subject.Reference)
	}
	if condition.ClinicalStatus.Coding[0].Code != "active" {
		t.Fatal("expected active clinical status")
	}
	if condition.VerificationStatus.Coding[0].Code != "confirmed" {
		t.Fatal("expected confirmed verification status")
	}
}

func TestMapMedicationStatement(t *testing.T) {
	m := NewMapper()

	resource, err := m.Map(models.ExtractedEntity{
		Text:     "metformin",
		Category: models.CategoryMedication,
	}, "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	statement, ok := resource.(*MedicationStatement)
	if !ok {
		t.Fatalf("expected *MedicationStatement, got %T", resource)
	}
	if statement.Status != "active" {
		t.Fatalf("unexpected status %s", statement.Status)
	}
	if statement.MedicationCodeableConcept.Text != "metformin" {
		t.Fatalf("unexpected concept text %s", statement.MedicationCodeableConcept.Text)
	}
	if len(statement.MedicationCodeableConcept.Coding) != 0 {
		t.Fatal("expected no coding without a catalog hit")
	}
}

func TestMapProcedure(t *testing.T) {
	m := NewMapper()

	resource, err := m.Map(models.ExtractedEntity{
		Text:     "biopsy",
		Category: models.CategoryProcedure,
	}, "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	procedure, ok := resource.(*Procedure)
	if !ok {
		t.Fatalf("expected *Procedure, got %T", resource)
	}
	if procedure.Status != "completed" {
		t.Fatalf("unexpected status %s", procedure.Status)
	}
}

func TestMapUnknownCategory(t *testing.T) {
	m := NewMapper()
	if _, err := m.Map(models.ExtractedEntity{Text: "x", Category: "allergy"}, "P1"); err != ErrUnknownCategory {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestMapIsStructurallyStable(t *testing.T) {
	m := NewMapper()

	first, err := m.Map(conditionEntity(), "P1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Map(conditionEntity(), "P1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := first.(*Condition)
	b := second.(*Condition)
	a.ID, b.ID = "", ""
	a.RecordedDate, b.RecordedDate = "", ""

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("mapping the same entity twice diverged:\n%+v\n%+v", a, b)
	}
}

func TestBundleCollection(t *testing.T) {
	m := NewMapper()

	condition, _ := m.Map(conditionEntity(), "P1")
	bundle := m.Bundle([]interface{}{condition})

	if bundle.Type != "collection" {
		t.Fatalf("unexpected bundle type %s", bundle.Type)
	}
	if bundle.Identifier == nil || bundle.Identifier.Value == "" {
		t.Fatal("expected bundle identifier")
	}
	if len(bundle.Entry) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(bundle.Entry))
	}
	if !strings.HasPrefix(bundle.Entry[0].FullURL, "urn:uuid:") {
		t.Fatalf("unexpected fullUrl %s", bundle.Entry[0].FullURL)
	}
}

func TestBundleEmpty(t *testing.T) {
	m := NewMapper()
	bundle := m.Bundle(nil)
	if len(bundle.Entry) != 0 {
		t.Fatalf("expected empty bundle, got %d entries", len(bundle.Entry))
	}
	if bundle.Type != "collection" {
		t.Fatalf("unexpected bundle type %s", bundle.Type)
	}
}
