package upload

import "stressorleads/internal/pkg/apperr"

var (
	ErrUploadNotFound    = apperr.NotFound("UPLOAD_NOT_FOUND", "upload not found")
	ErrEmptyFile         = apperr.BadRequest("EMPTY_FILE", "file is empty")
	ErrFileTooLarge      = apperr.TooLarge("FILE_TOO_LARGE", "file exceeds maximum allowed size")
	ErrUploadInProgress  = apperr.Conflict("UPLOAD_IN_PROGRESS", "upload is still processing")
	ErrTerminalStatus    = apperr.Conflict("UPLOAD_FINALIZED", "upload already reached a terminal status")
	ErrInvalidTransition = apperr.Internal("INVALID_TRANSITION", "invalid upload status transition")
	ErrScheduleFailed    = apperr.Internal("SCHEDULE_FAILED", "failed to schedule processing")
)
