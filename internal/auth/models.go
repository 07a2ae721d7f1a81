package auth

// DevAuthRequest optionally names the token subject.
type DevAuthRequest struct {
	Subject string `json:"subject"`
}

type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Subject     string `json:"subject"`
}

// MeResponse describes the caller of GET /v1/auth/me.
type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	Subject       string `json:"subject,omitempty"`
	AuthMode      string `json:"auth_mode"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
