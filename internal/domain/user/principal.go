package user

// Principal is the identity resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}
