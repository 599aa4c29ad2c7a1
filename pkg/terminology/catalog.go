package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SystemSNOMED = "http://snomed.info/sct"
	SystemRxNorm = "http://www.nlm.nih.gov/research/umls/rxnorm"
	SystemICD10  = "http://hl7.org/fhir/sid/icd-10-cm"
)

type Concept struct {
	Display string `yaml:"display" json:"display"`
	System  string `yaml:"system" json:"system"`
	Code    string `yaml:"code" json:"code"`
	ICD10   string `yaml:"icd10" json:"icd10,omitempty"`
}

type Catalog struct {
	Concepts map[string]Concept `yaml:"concepts" json:"concepts"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Concepts) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

func (c Catalog) Lookup(key string) (Concept, bool) {
	if c.Concepts == nil {
		return Concept{}, false
	}
	concept, ok := c.Concepts[strings.ToLower(key)]
	if ok {
		return concept, true
	}
	for k, v := range c.Concepts {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Concept{}, false
}

// DefaultCatalog covers the default extraction lexicon. Terms without an
// entry map without a coding.
func DefaultCatalog() Catalog {
	return Catalog{Concepts: map[string]Concept{
		// Conditions
		"diabetes": {
			Display: "Diabetes mellitus",
			System:  SystemSNOMED,
			Code:    "73211009",
			ICD10:   "E11.9",
		},
		"hypertension": {
			Display: "Hypertensive disorder",
			System:  SystemSNOMED,
			Code:    "38341003",
			ICD10:   "I10",
		},
		"asthma": {
			Display: "Asthma",
			System:  SystemSNOMED,
			Code:    "195967001",
			ICD10:   "J45.909",
		},
		"pneumonia": {
			Display: "Pneumonia",
			System:  SystemSNOMED,
			Code:    "233604007",
			ICD10:   "J18.9",
		},
		"copd": {
			Display: "Chronic obstructive lung disease",
			System:  SystemSNOMED,
			Code:    "13645005",
			ICD10:   "J44.9",
		},
		"myocardial infarction": {
			Display: "Myocardial infarction",
			System:  SystemSNOMED,
			Code:    "22298006",
			ICD10:   "I21.9",
		},
		"fever": {
			Display: "Fever",
			System:  SystemSNOMED,
			Code:    "386661006",
			ICD10:   "R50.9",
		},
		"infection": {
			Display: "Infectious disease",
			System:  SystemSNOMED,
			Code:    "40733004",
		},
		"pain": {
			Display: "Pain",
			System:  SystemSNOMED,
			Code:    "22253000",
			ICD10:   "R52",
		},
		// Medications
		"metformin": {
			Display: "Metformin",
			System:  SystemRxNorm,
			Code:    "6809",
		},
		"lisinopril": {
			Display: "Lisinopril",
			System:  SystemRxNorm,
			Code:    "29046",
		},
		"aspirin": {
			Display: "Aspirin",
			System:  SystemRxNorm,
			Code:    "1191",
		},
		"atorvastatin": {
			Display: "Atorvastatin",
			System:  SystemRxNorm,
			Code:    "83367",
		},
		"omeprazole": {
			Display: "Omeprazole",
			System:  SystemRxNorm,
			Code:    "7646",
		},
		"levothyroxine": {
			Display: "Levothyroxine",
			System:  SystemRxNorm,
			Code:    "10582",
		},
		"amlodipine": {
			Display: "Amlodipine",
			System:  SystemRxNorm,
			Code:    "17767",
		},
		// Procedures
		"biopsy": {
			Display: "Biopsy",
			System:  SystemSNOMED,
			Code:    "86273004",
		},
		"x-ray": {
			Display: "Plain radiography",
			System:  SystemSNOMED,
			Code:    "363680008",
		},
		"ct scan": {
			Display: "Computed tomography",
			System:  SystemSNOMED,
			Code:    "77477000",
		},
		"mri": {
			Display: "Magnetic resonance imaging",
			System:  SystemSNOMED,
			Code:    "113091000",
		},
		"ultrasound": {
			Display: "Ultrasonography",
			System:  SystemSNOMED,
			Code:    "16310003",
		},
		"echocardiogram": {
			Display: "Echocardiography",
			System:  SystemSNOMED,
			Code:    "40701008",
		},
	}}
}
