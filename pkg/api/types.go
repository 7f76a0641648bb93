package api

// PortalSessionRequest is the body of a portal-session creation request
type PortalSessionRequest struct {
	ReturnURL string `json:"returnUrl"`
}

// PortalSessionResponse carries the provider-hosted portal URL
type PortalSessionResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the uniform error body for all API endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}
