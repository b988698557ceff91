package errors

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "quota_exceeded")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
	Used    *int   `json:"used,omitempty"`    // credits used, set for quota errors
	Limit   *int   `json:"limit,omitempty"`   // daily credit limit, set for quota errors
}

type errorInfo struct {
	category  string
	sanitized string
}
