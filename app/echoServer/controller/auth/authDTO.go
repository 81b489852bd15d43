package auth

type ForgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordReq struct {
	Password string `json:"password" validate:"required,min=6"`
}
