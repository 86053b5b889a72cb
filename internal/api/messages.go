package api

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// AuthResponse is returned by every call that establishes a session.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInWithPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithFederatedTokenRequest carries a provider-issued ID token.
// Provider is "google" or "apple".
type SignInWithFederatedTokenRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"id_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SendPasswordResetRequest struct {
	Email string `json:"email"`
}

type SendPasswordResetResponse struct{}

type ConfirmPasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ConfirmPasswordResetResponse struct{}

type GetDocumentRequest struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// GetDocumentResponse has Found=false and no Fields for an absent document.
type GetDocumentResponse struct {
	Found  bool    `json:"found"`
	Fields *Fields `json:"fields,omitempty"`
}

// SetDocumentRequest replaces the document, or with Merge set, overwrites
// only the given top-level keys.
type SetDocumentRequest struct {
	Collection string  `json:"collection"`
	ID         string  `json:"id"`
	Fields     *Fields `json:"fields"`
	Merge      bool    `json:"merge"`
}

type SetDocumentResponse struct{}

type GetUploadURLRequest struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

type GetUploadURLResponse struct {
	URL string `json:"url"`
}

type GetDownloadURLRequest struct {
	Path string `json:"path"`
}

type GetDownloadURLResponse struct {
	URL string `json:"url"`
}
