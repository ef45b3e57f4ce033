package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConfirmationRequiredResponse se devuelve cuando una operación administrativa
// necesita confirmación explícita: el cliente debe reinvocar la misma operación
// incluyendo el token antes de que expire.
type ConfirmationRequiredResponse struct {
	Code         string `json:"code"` // siempre "CONFIRMATION_REQUIRED"
	Message      string `json:"message"`
	ConfirmToken string `json:"confirm_token"`
	ExpiresInSec int    `json:"expires_in_sec"`
}
