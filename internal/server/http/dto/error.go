package dto

// ErrorResponse carries a human readable failure reason.
type ErrorResponse struct {
	Message string `json:"message"`
}
