package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medbridge-ai/notefhir/pkg/common/kafka"
	"github.com/medbridge-ai/notefhir/pkg/common/logger"
	"github.com/medbridge-ai/notefhir/pkg/common/models"
	"github.com/medbridge-ai/notefhir/pkg/extractor"
	"github.com/medbridge-ai/notefhir/pkg/fhir"
	"github.com/medbridge-ai/notefhir/pkg/observability/metrics"
	"github.com/medbridge-ai/notefhir/pkg/phi"
)

type Result struct {
	Status   string                   `json:"status"`
	Entities []models.ExtractedEntity `json:"entities"`
	Bundle   *fhir.Bundle             `json:"fhir_bundle,omitempty"`
	Warnings []string                 `json:"warnings"`
}

type Service struct {
	extractor        *extractor.Extractor
	mapper           *fhir.Mapper
	detector         *phi.Detector
	producer         *kafka.Producer
	cache            *Cache
	threshold        float64
	defaultPatientID string
}

// NewService wires the conversion pipeline. producer and cache may be nil;
// detector may be nil to skip identifier scanning.
func NewService(ex *extractor.Extractor, mapper *fhir.Mapper, detector *phi.Detector, producer *kafka.Producer, cache *Cache, threshold float64, defaultPatientID string) *Service {
	if defaultPatientID == "" {
		defaultPatientID = "example-patient"
	}
	return &Service{
		extractor:        ex,
		mapper:           mapper,
		detector:         detector,
		producer:         producer,
		cache:            cache,
		threshold:        threshold,
		defaultPatientID: defaultPatientID,
	}
}

func (s *Service) Convert(ctx context.Context, req models.ConvertRequest) (*Result, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		patientID = s.defaultPatientID
	}

	key := CacheKey(req.ClinicalNote, patientID, s.extractor.Version(), s.detector.Version(), s.threshold)
	if cached, ok := s.cache.Get(ctx, key); ok {
		metrics.IncCacheHit()
		return cached, nil
	}

	entities := s.extractor.Extract(req.ClinicalNote)
	warnings := []string{}

	if s.detector != nil {
		if finding := s.detector.Scan(req.ClinicalNote); finding.Detected {
			warnings = append(warnings, fmt.Sprintf(
				"note may contain personal identifiers: %s", strings.Join(finding.Types, ", ")))
		}
	}

	var resources []interface{}
	counts := map[models.Category]int{}
	for _, entity := range entities {
		counts[entity.Category]++

		if entity.Negated {
			warnings = append(warnings, fmt.Sprintf(
				"entity '%s' appears negated in context", entity.Text))
		}
		if entity.Confidence < s.threshold {
			warnings = append(warnings, fmt.Sprintf(
				"low confidence (%.2f) for %s '%s'; excluded from bundle",
				entity.Confidence, entity.Category, entity.Text))
			continue
		}

		resource, err := s.mapper.Map(entity, patientID)
		if err != nil {
			if errors.Is(err, fhir.ErrUnknownCategory) {
				warnings = append(warnings, fmt.Sprintf(
					"no FHIR mapping for category '%s' (entity '%s')", entity.Category, entity.Text))
				continue
			}
			metrics.IncConversionError()
			return nil, fmt.Errorf("mapping entity '%s': %w", entity.Text, err)
		}
		resources = append(resources, resource)
	}

	bundle := s.mapper.Bundle(resources)

	if entities == nil {
		entities = []models.ExtractedEntity{}
	}
	result := &Result{
		Status:   "success",
		Entities: entities,
		Bundle:   bundle,
		Warnings: warnings,
	}

	metrics.IncConversion(
		counts[models.CategoryCondition],
		counts[models.CategoryMedication],
		counts[models.CategoryProcedure],
		len(warnings),
	)

	s.publishEvent(ctx, result, counts)
	s.cache.Set(ctx, key, result)

	return result, nil
}

// publishEvent reports a completed conversion on the event bus. Entity texts
// are masked; the raw note never leaves the process.
func (s *Service) publishEvent(ctx context.Context, result *Result, counts map[models.Category]int) {
	if s.producer == nil {
		return
	}

	texts := make([]string, 0, len(result.Entities))
	for _, entity := range result.Entities {
		text := entity.Text
		if s.detector != nil {
			text = s.detector.Mask(text)
		}
		texts = append(texts, text)
	}

	payload := map[string]interface{}{
		"entity_count":  len(result.Entities),
		"warning_count": len(result.Warnings),
		"conditions":    counts[models.CategoryCondition],
		"medications":   counts[models.CategoryMedication],
		"procedures":    counts[models.CategoryProcedure],
		"entity_texts":  texts,
		"bundle_size":   len(result.Bundle.Entry),
	}

	if err := s.producer.PublishEvent(ctx, "conversion", "converter-service", payload); err != nil {
		logger.Log.WithError(err).Error("failed to publish conversion event")
	} else {
		metrics.IncEventPublished()
	}
}
