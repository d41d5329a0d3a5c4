package types

type LoginRequest struct {
	Username string `json:"username"`
}

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content"`
	Mode      string `json:"mode,omitempty"`
	Advanced  bool   `json:"advanced,omitempty"`
}

type StartSessionRequest struct {
	// Explicit requests a brand-new session; otherwise the legacy
	// date-derived session for today is used.
	Explicit bool `json:"explicit"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Welcome   string `json:"welcome"`
}

type QuoteRequest struct {
	EventDescription string `json:"event_description"`
	Guests           int    `json:"guests"`
}

type Quote struct {
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	PriceEstimate string `json:"price_estimate"`
}
