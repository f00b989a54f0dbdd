package models

// FieldError attributes a validation failure to a specific field of the plan.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DataAccessResult is the outcome of a plan write. Failures are reported
// through it rather than returned as errors, so callers always receive
// structured detail instead of having to unwrap error chains.
type DataAccessResult struct {
	Success     bool         `json:"success"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Message     string       `json:"message,omitempty"`
}
