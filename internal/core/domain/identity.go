package domain

import "context"

// Claims is the identity payload signed into an access token.
type Claims struct {
	Subject string
	Email   string
	Role    Role
}

// ClaimsFor projects u into token claims as of now. Later changes to the
// user do not affect tokens already issued.
func ClaimsFor(u *User) Claims {
	return Claims{Subject: u.ID, Email: u.Email, Role: u.Role}
}

// Identity is the authenticated caller attached to a single request.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IdentityFromClaims builds the request identity from validated claims.
func IdentityFromClaims(c Claims) Identity {
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
