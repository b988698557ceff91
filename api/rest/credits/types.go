package credits

import "codeberg.org/promptgrid/server/internal/quota"

// CheckRequest carries an optional anonymous session token
type CheckRequest struct {
	SessionToken string `json:"sessionToken"`
}

// StatusResponse reports the caller's credit standing
type StatusResponse struct {
	*quota.Status
	SessionToken string `json:"session_token,omitempty"`
}
