package services

// Request DTOs for the exposed operations. Validation rules live in the
// struct tags and are enforced by go-playground/validator before any
// repository or crypto work happens.

type LoginRequest struct {
	Identifier string `validate:"required"` // email or username
	Secret     string `validate:"required"`
}

type SignupRequest struct {
	Username string `validate:"required,min=3,max=64"`
	Email    string `validate:"required,email"`
	Secret   string `validate:"required,min=8,max=72"`
}

type VerifyRequest struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,numeric"`
}

type EmailRequest struct {
	Email string `validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email     string `validate:"required,email"`
	Code      string `validate:"required,len=6,numeric"`
	NewSecret string `validate:"required,min=8,max=72"`
}

// LoginResult carries the minted session token and its lifetime in seconds
// for client-side caching.
type LoginResult struct {
	Token     string
	ExpiresIn int64
}
