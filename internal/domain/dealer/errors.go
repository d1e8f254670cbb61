package dealer

import "stressorleads/internal/pkg/apperr"

var (
	ErrDealerNotFound     = apperr.NotFound("DEALER_NOT_FOUND", "dealer not found")
	ErrEmailExists        = apperr.Conflict("EMAIL_EXISTS", "email already registered")
	ErrInvalidCredentials = apperr.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
)
