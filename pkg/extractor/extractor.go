package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/medbridge-ai/notefhir/pkg/common/models"
	"github.com/medbridge-ai/notefhir/pkg/terminology"
)

const (
	confidenceSpecific = 0.7 // terms longer than five characters
	confidenceGeneric  = 0.6

	negationWindow = 30
)

// negationCue matches a negation marker in the clause leading up to a span.
// A sentence or clause break between the cue and the span defeats the match.
var negationCue = regexp.MustCompile(`(?i)\b(no|denies|denied|without|negative for)\b[^.;:]*$`)

type compiledTerm struct {
	term       string
	category   models.Category
	re         *regexp.Regexp
	confidence float64
}

type Extractor struct {
	terms   []compiledTerm
	catalog terminology.Catalog
	version string
}

func New(lex Lexicon, cat terminology.Catalog) (*Extractor, error) {
	var compiled []compiledTerm
	for category, terms := range map[models.Category][]string{
		models.CategoryCondition:  lex.Conditions,
		models.CategoryMedication: lex.Medications,
		models.CategoryProcedure:  lex.Procedures,
	} {
		for _, term := range terms {
			trimmed := strings.ToLower(strings.TrimSpace(term))
			if trimmed == "" {
				continue
			}
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(trimmed) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("compiling lexicon term %q: %w", term, err)
			}
			confidence := confidenceGeneric
			if len(trimmed) > 5 {
				confidence = confidenceSpecific
			}
			compiled = append(compiled, compiledTerm{
				term:       trimmed,
				category:   category,
				re:         re,
				confidence: confidence,
			})
		}
	}
	if len(compiled) == 0 {
		return nil, fmt.Errorf("lexicon has no usable terms")
	}

	return &Extractor{terms: compiled, catalog: cat, version: lex.Version}, nil
}

// Version identifies the loaded lexicon for cache keying.
func (e *Extractor) Version() string {
	return e.version
}

// Extract tags clinical entity spans in the note text. Output is ordered by
// start offset (longer span first on ties); a span fully contained in an
// earlier accepted span is suppressed. Empty text yields no entities.
func (e *Extractor) Extract(text string) []models.ExtractedEntity {
	if e == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	var entities []models.ExtractedEntity
	for _, ct := range e.terms {
		matches := ct.re.FindAllStringIndex(text, -1)
		for _, match := range matches {
			entity := models.ExtractedEntity{
				Text:       text[match[0]:match[1]],
				Category:   ct.category,
				Start:      match[0],
				End:        match[1],
				Confidence: ct.confidence,
			}
			if concept, ok := e.catalog.Lookup(ct.term); ok {
				entity.Code = &models.EntityCode{
					System:  concept.System,
					Code:    concept.Code,
					Display: concept.Display,
				}
			}
			if isNegated(text, match[0]) {
				entity.Negated = true
				entity.Confidence = entity.Confidence / 2
			}
			entities = append(entities, entity)
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		if entities[i].End != entities[j].End {
			return entities[i].End > entities[j].End
		}
		return entities[i].Category < entities[j].Category
	})

	return suppressContained(entities)
}

func suppressContained(entities []models.ExtractedEntity) []models.ExtractedEntity {
	var kept []models.ExtractedEntity
	for _, entity := range entities {
		contained := false
		for _, prev := range kept {
			if entity.Start >= prev.Start && entity.End <= prev.End &&
				(entity.End-entity.Start) < (prev.End-prev.Start) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, entity)
		}
	}
	return kept
}

func isNegated(text string, start int) bool {
	windowStart := start - negationWindow
	if windowStart < 0 {
		windowStart = 0
	}
	return negationCue.MatchString(text[windowStart:start])
}
