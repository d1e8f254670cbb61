package vehicle

import "stressorleads/internal/pkg/apperr"

var ErrVehicleNotFound = apperr.NotFound("VEHICLE_NOT_FOUND", "vehicle not found")
