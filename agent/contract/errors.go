package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrTimeout         = errors.New("timed out")

	ErrUnauthenticated = errors.New("user not authenticated")
	ErrAccessDenied    = errors.New("access denied")
	ErrUnknownTool     = errors.New("unknown tool")
)
