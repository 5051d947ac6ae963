package apperrors

import (
	"errors"
	"fmt"

	"github.com/ekaya-inc/databridge/pkg/models"
)

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrNoPathFound       = errors.New("no relationship path found")
	ErrNoMapping         = errors.New("no column mapping between tables")
	ErrAmbiguousMapping  = errors.New("ambiguous column mapping between tables")
	ErrEmptyCandidateSet = errors.New("no unique key candidates in store")
)

// NoPathError reports that no simple relationship path connects two tables.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no relationship path from %q to %q", e.From, e.To)
}

func (e *NoPathError) Unwrap() error { return ErrNoPathFound }

// NoMappingError reports that the relationship set has no entry for an
// ordered table pair required by a join plan.
type NoMappingError struct {
	From string
	To   string
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("no column mapping from %q to %q", e.From, e.To)
}

func (e *NoMappingError) Unwrap() error { return ErrNoMapping }

// AmbiguousMappingError reports that more than one relationship exists for
// an ordered table pair. Candidates carries every match so the caller can
// disambiguate manually.
type AmbiguousMappingError struct {
	From       string
	To         string
	Candidates []models.Relationship
}

func (e *AmbiguousMappingError) Error() string {
	return fmt.Sprintf("ambiguous column mapping from %q to %q: %d candidates", e.From, e.To, len(e.Candidates))
}

func (e *AmbiguousMappingError) Unwrap() error { return ErrAmbiguousMapping }
