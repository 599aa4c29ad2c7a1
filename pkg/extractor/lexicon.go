package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Lexicon lists the surface terms recognised per entity category. Version
// participates in cache keys so a reloaded lexicon never serves stale results.
type Lexicon struct {
	Version     string   `yaml:"version" json:"version"`
	Conditions  []string `yaml:"conditions" json:"conditions"`
	Medications []string `yaml:"medications" json:"medications"`
	Procedures  []string `yaml:"procedures" json:"procedures"`
}

func LoadLexicon(path string) (Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultLexicon(), err
	}

	// Unknown top-level keys are unsupported categories and must fail
	// loudly instead of being dropped.
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var lex Lexicon
	if err := dec.Decode(&lex); err != nil && !errors.Is(err, io.EOF) {
		return Lexicon{}, fmt.Errorf("parsing lexicon: %w", err)
	}

	if len(lex.Conditions)+len(lex.Medications)+len(lex.Procedures) == 0 {
		return Lexicon{}, errors.New("lexicon has no terms")
	}
	if lex.Version == "" {
		lex.Version = "custom"
	}

	return lex, nil
}

func DefaultLexicon() Lexicon {
	return Lexicon{
		Version: "default-v1",
		Conditions: []string{
			"pain", "diabetes", "hypertension", "infection", "fever",
			"myocardial infarction", "mi", "copd", "asthma", "pneumonia",
		},
		Medications: []string{
			"lisinopril", "metformin", "aspirin", "insulin", "atorvastatin",
			"omeprazole", "levothyroxine", "amlodipine",
		},
		Procedures: []string{
			"surgery", "intervention", "biopsy", "imaging", "x-ray",
			"ct scan", "mri", "ultrasound", "echocardiogram",
		},
	}
}
