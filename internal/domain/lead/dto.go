package lead

import "stressorleads/internal/domain/vehicle"

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type ListFilter struct {
	UploadID *int64
	MinScore *float64
	Limit    int
}

// Response is a scored lead joined with its vehicle.
type Response struct {
	*ScoredLead
	CallByDate string            `json:"call_by_date"`
	Vehicle    *vehicle.Response `json:"vehicle"`
}

func NewResponse(l *ScoredLead) Response {
	resp := Response{
		ScoredLead: l,
		CallByDate: l.CallByDate.Format(vehicle.DateLayout),
	}
	if l.Vehicle != nil {
		v := vehicle.NewResponse(l.Vehicle)
		resp.Vehicle = &v
	}
	return resp
}

func NewResponses(leads []*ScoredLead) []Response {
	out := make([]Response, 0, len(leads))
	for _, l := range leads {
		out = append(out, NewResponse(l))
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
