package terminology

import "testing"

func TestLookupIsCaseInsensitive(t *testing.T) {
	cat := DefaultCatalog()

	concept, ok := cat.Lookup("Metformin")
	if !ok {
		t.Fatal("expected lookup hit for Metformin")
	}
	if concept.System != SystemRxNorm {
		t.Fatalf("expected RxNorm system, got %s", concept.System)
	}
	if concept.Code != "6809" {
		t.Fatalf("unexpected code %s", concept.Code)
	}
}

func TestLookupMiss(t *testing.T) {
	cat := DefaultCatalog()
	if _, ok := cat.Lookup("unobtainium"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestLookupMultiWordTerm(t *testing.T) {
	cat := DefaultCatalog()
	concept, ok := cat.Lookup("myocardial infarction")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if concept.ICD10 != "I21.9" {
		t.Fatalf("unexpected ICD-10 code %s", concept.ICD10)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Concepts) == 0 {
		t.Fatal("expected default concepts")
	}
}
