package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session does not exist or has expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrQuestionUnanswered is returned when advancing past a question with no answer.
	ErrQuestionUnanswered = errors.New("current question has no answer")
	// ErrQuizComplete is returned for intents sent after the results were produced.
	ErrQuizComplete = errors.New("quiz already complete")
	// ErrResultsNotReady is returned when results are requested before the last question.
	ErrResultsNotReady = errors.New("quiz results not ready")
	// ErrUnknownIntent indicates an unsupported intent type.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrInvalidLead indicates missing or malformed contact details.
	ErrInvalidLead = errors.New("invalid lead contact details")
	// ErrConsentNotFound is returned when no unexpired consent is stored for a visitor.
	ErrConsentNotFound = errors.New("consent not found")
	// ErrLeadExportUnsupported is returned when the configured lead store cannot be read back.
	ErrLeadExportUnsupported = errors.New("lead store does not support export")
)
