package dto

// Data Transfer Objects for the email-code authentication flow

// RequestCodeRequest: payload for POST /auth/email
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email,max=75"`
}

// ConfirmCodeRequest: payload for POST /auth/token
type ConfirmCodeRequest struct {
	Email            string `json:"email" binding:"required,email,max=75"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// MessageResponse: plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse: response payload after a successful code exchange
type TokenResponse struct {
	Token string `json:"token"`
}
