package server

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// AuthLoginRequest represents the login payload.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse returns the current authenticated user id.
type MeResponse struct {
	UserID string `json:"user_id"`
}

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	Message     string      `json:"message"`
	FileID      string      `json:"file_id"`
	RAGResponse interface{} `json:"rag_response"`
}

// IDsResponse lists the indexed document identifiers known upstream.
type IDsResponse struct {
	IDs interface{} `json:"ids"`
}

// PreviewResponse carries condensed context chunks for one document.
type PreviewResponse struct {
	FileID string      `json:"file_id"`
	Chunks interface{} `json:"chunks"`
}
