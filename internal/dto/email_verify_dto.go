package dto

type EmailVerifyRequest struct {
	Email string `json:"email"`
}
