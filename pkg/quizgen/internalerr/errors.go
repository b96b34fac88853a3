package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Pipeline failures. Each one is terminal for a single run.
	ErrExtraction     = errors.New("document has no extractable text")
	ErrEmptyMaterial  = errors.New("no usable material to process")
	ErrGeneration     = errors.New("could not generate questions from document")
	ErrInvalidVariant = errors.New("unknown question variant")
)
