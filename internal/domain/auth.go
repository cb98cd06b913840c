// Package domain contains the portion model: units, servings and the
// conversions between them, plus the catalog entities and ports around it.
package domain

// Principal identifies the caller of an authenticated request.
type Principal struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	// Method is "api_key" or "oidc".
	Method string `json:"method"`
}

// Name returns the email when known, otherwise the subject.
func (p Principal) Name() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Subject
}
