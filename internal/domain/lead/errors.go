package lead

import "stressorleads/internal/pkg/apperr"

var ErrLeadNotFound = apperr.NotFound("LEAD_NOT_FOUND", "scored lead not found")
