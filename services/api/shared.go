package api

type ApiResStatusEnum string

const (
	ApiResStatusOk               ApiResStatusEnum = "OK"
	ApiResStatusRequestBodyError ApiResStatusEnum = "REQUEST_BODY_ERROR"
	ApiResStatusInvalidRequest   ApiResStatusEnum = "INVALID_REQUEST"
	ApiResStatusUnauthorized     ApiResStatusEnum = "UNAUTHORIZED"
	ApiResStatusNotFound         ApiResStatusEnum = "NOT_FOUND"
	ApiResStatusUnavailable      ApiResStatusEnum = "UNAVAILABLE"
	ApiResStatusError            ApiResStatusEnum = "ERROR"
)

type ApiResponseWrapper[T any] struct {
	Status       ApiResStatusEnum `json:"status"`
	Data         T                `json:"data,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	ErrorDetails string           `json:"errorDetails,omitempty"`
}

func NewApiResponse[T any](status ApiResStatusEnum, data T) ApiResponseWrapper[T] {
	return ApiResponseWrapper[T]{
		Status: status,
		Data:   data,
	}
}
