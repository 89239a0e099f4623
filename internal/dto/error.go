package dto

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request. Code names the exact
// failure (e.g. "claim_already_approved"); Retryable is set for transient
// failures.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Code      string       `json:"code"`
	Retryable bool         `json:"retryable,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
}
