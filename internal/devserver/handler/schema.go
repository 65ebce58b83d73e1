package handler

// ErrorResponse is the error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
