package vehicle

import "time"

const DateLayout = "2006-01-02"

// Response renders dates as YYYY-MM-DD.
type Response struct {
	*Vehicle
	WarrantyExpDate *string `json:"warranty_exp_date"`
	LastServiceDate *string `json:"last_service_date"`
}

func NewResponse(v *Vehicle) Response {
	return Response{
		Vehicle:         v,
		WarrantyExpDate: formatDate(v.WarrantyExpDate),
		LastServiceDate: formatDate(v.LastServiceDate),
	}
}

func NewResponses(vs []*Vehicle) []Response {
	out := make([]Response, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewResponse(v))
	}
	return out
}

type ListFilter struct {
	UploadID *int64
	Limit    int
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
