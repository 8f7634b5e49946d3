package usecase

// TokenService issues bearer identity tokens; verification lives in the auth
// middleware, which needs the full claims.
type TokenService interface {
	Generate(userID string) (string, error)
}

// PasswordHasher is the opaque credential-hashing capability.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, candidate string) bool
}

// Notifier delivers outbound mail.
type Notifier interface {
	SendPasswordReset(to, resetURL string) error
}
