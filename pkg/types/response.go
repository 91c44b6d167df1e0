package types

// FieldError describes one violated constraint. Field is the location path
// joined with " -> " (for example "body -> price").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail  string       `json:"detail"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// HealthResponse reports service status and the running version.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
