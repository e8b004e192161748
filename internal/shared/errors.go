package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// File validation errors
	ErrEmptyFile       = fmt.Errorf("file is empty")
	ErrFileTooLarge    = fmt.Errorf("file too large")
	ErrUnsupportedFile = fmt.Errorf("unsupported file type")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Processing errors
	ErrProcessingFailed  = fmt.Errorf("processing failed")
	ErrInsufficientText  = fmt.Errorf("not enough text extracted from document")
	ErrProcessingRunning = fmt.Errorf("processing already in progress")

	// Session errors
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrStageIncomplete  = fmt.Errorf("current stage is not complete")
	ErrInvalidStage     = fmt.Errorf("invalid stage transition")
	ErrNoResults        = fmt.Errorf("no processing results available")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
