package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medbridge-ai/notefhir/pkg/common/models"
	"github.com/medbridge-ai/notefhir/pkg/terminology"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(DefaultLexicon(), terminology.DefaultCatalog())
	if err != nil {
		t.Fatalf("failed to build extractor: %v", err)
	}
	return e
}

func TestExtractKnownMedication(t *testing.T) {
	e := newTestExtractor(t)
	text := "Patient has diabetes. Taking metformin."

	entities := e.Extract(text)
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d: %v", len(entities), entities)
	}

	if entities[0].Text != "diabetes" || entities[0].Category != models.CategoryCondition {
		t.Fatalf("unexpected first entity: %+v", entities[0])
	}
	if entities[1].Text != "metformin" || entities[1].Category != models.CategoryMedication {
		t.Fatalf("unexpected second entity: %+v", entities[1])
	}

	if text[entities[1].Start:entities[1].End] != "metformin" {
		t.Fatalf("span offsets do not cover the matched text")
	}
	if entities[1].Code == nil || entities[1].Code.Code != "6809" {
		t.Fatalf("expected RxNorm code on metformin, got %+v", entities[1].Code)
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := newTestExtractor(t)
	if got := e.Extract(""); len(got) != 0 {
		t.Fatalf("expected no entities for empty text, got %v", got)
	}
	if got := e.Extract("   \n"); len(got) != 0 {
		t.Fatalf("expected no entities for blank text, got %v", got)
	}
}

func TestExtractOrderedByPosition(t *testing.T) {
	e := newTestExtractor(t)
	entities := e.Extract("Ordered CT scan after aspirin was started for fever.")
	if len(entities) < 3 {
		t.Fatalf("expected at least 3 entities, got %v", entities)
	}
	for i := 1; i < len(entities); i++ {
		if entities[i].Start < entities[i-1].Start {
			t.Fatalf("entities not ordered by start offset: %v", entities)
		}
	}
}

func TestExtractConfidenceByTermLength(t *testing.T) {
	e := newTestExtractor(t)

	entities := e.Extract("History of hypertension and mi noted.")
	byText := map[string]models.ExtractedEntity{}
	for _, entity := range entities {
		byText[entity.Text] = entity
	}

	if got := byText["hypertension"].Confidence; got != 0.7 {
		t.Fatalf("expected 0.7 for long term, got %v", got)
	}
	if got := byText["mi"].Confidence; got != 0.6 {
		t.Fatalf("expected 0.6 for short term, got %v", got)
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	e := newTestExtractor(t)
	// "mi" must not match inside "mitochondrial"
	entities := e.Extract("Workup for mitochondrial disease.")
	for _, entity := range entities {
		if entity.Text == "mi" {
			t.Fatalf("matched 'mi' inside a larger word: %+v", entity)
		}
	}
}

func TestExtractSuppressesContainedSpans(t *testing.T) {
	e := newTestExtractor(t)
	entities := e.Extract("Prior myocardial infarction in 2019.")

	var found bool
	for _, entity := range entities {
		if entity.Text == "myocardial infarction" {
			found = true
		}
		if entity.Text != "myocardial infarction" && entity.Start >= 6 && entity.End <= 27 {
			t.Fatalf("contained span not suppressed: %+v", entity)
		}
	}
	if !found {
		t.Fatal("expected myocardial infarction entity")
	}
}

func TestExtractNegationCue(t *testing.T) {
	e := newTestExtractor(t)
	entities := e.Extract("Patient denies fever. Reports pain in left arm.")

	byText := map[string]models.ExtractedEntity{}
	for _, entity := range entities {
		byText[entity.Text] = entity
	}

	fever, ok := byText["fever"]
	if !ok {
		t.Fatal("expected fever entity to be retained")
	}
	if !fever.Negated {
		t.Fatalf("expected fever to be flagged negated: %+v", fever)
	}
	if fever.Confidence != 0.3 {
		t.Fatalf("expected halved confidence 0.3, got %v", fever.Confidence)
	}

	pain, ok := byText["pain"]
	if !ok {
		t.Fatal("expected pain entity")
	}
	if pain.Negated {
		t.Fatalf("pain should not be negated across sentence boundary: %+v", pain)
	}
}

func TestLoadLexiconRejectsUnsupportedCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := "version: v2\nconditions:\n  - diabetes\nallergies:\n  - peanut\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write lexicon file: %v", err)
	}

	_, err := LoadLexicon(path)
	if err == nil {
		t.Fatal("expected error for unsupported category")
	}
	if !strings.Contains(err.Error(), "allergies") {
		t.Fatalf("expected error to name the unsupported category, got: %v", err)
	}
}

func TestLoadLexiconFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := "version: v2\nconditions:\n  - diabetes\nmedications:\n  - metformin\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write lexicon file: %v", err)
	}

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lex.Version != "v2" {
		t.Fatalf("unexpected version %s", lex.Version)
	}
	if len(lex.Conditions) != 1 || len(lex.Medications) != 1 {
		t.Fatalf("unexpected lexicon contents: %+v", lex)
	}
}

func TestLoadLexiconEmptyPathUsesDefaults(t *testing.T) {
	lex, err := LoadLexicon("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lex.Version != "default-v1" {
		t.Fatalf("unexpected version %s", lex.Version)
	}
	if len(lex.Medications) == 0 {
		t.Fatal("expected default medications")
	}
}
