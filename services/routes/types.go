package routes

type PaginatedRequest struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
}

func (r PaginatedRequest) limitOrDefault() int {
	if r.Limit == 0 {
		return 20
	}
	return r.Limit
}
