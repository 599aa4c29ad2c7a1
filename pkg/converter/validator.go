package converter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medbridge-ai/notefhir/pkg/common/models"
)

const defaultMinNoteLength = 10

var (
	errNoteRequired = errors.New("clinical note required")
	errNoteTooShort = errors.New("clinical note too short")
	errBadPatientID = errors.New("invalid patient id")
)

var patientIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	minNoteLength int
}

func NewValidator(minNoteLength int) *Validator {
	if minNoteLength <= 0 {
		minNoteLength = defaultMinNoteLength
	}
	return &Validator{minNoteLength: minNoteLength}
}

func (v *Validator) Validate(req models.ConvertRequest) error {
	if v == nil {
		return ValidationError{reason: errors.New("validator not initialised")}
	}

	note := strings.TrimSpace(req.ClinicalNote)
	if note == "" {
		return ValidationError{reason: errNoteRequired}
	}
	if utf8.RuneCountInString(note) < v.minNoteLength {
		return ValidationError{reason: fmt.Errorf("note shorter than %d characters: %w", v.minNoteLength, errNoteTooShort)}
	}

	if req.PatientID != "" && !patientIDPattern.MatchString(req.PatientID) {
		return ValidationError{reason: fmt.Errorf("patient id '%s' not allowed: %w", req.PatientID, errBadPatientID)}
	}

	return nil
}
