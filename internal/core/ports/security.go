package ports

// PasswordHasher is a slow, salted one-way hash for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenService issues and validates signed, time-limited identity tokens.
// Validate collapses every failure into domain.ErrInvalidToken.
type TokenService interface {
	Issue(subject string) (string, error)
	Validate(token string) (string, error)
}
