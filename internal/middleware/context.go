package middleware

import "context"

// Principal is the caller resolved from a bearer token.
type Principal struct {
	UserID uint
	Email  string
	Role   string
}

type principalKey struct{}

func SetUserContext(ctx context.Context, id uint, email, role string) context.Context {
	return context.WithValue(ctx, principalKey{}, Principal{UserID: id, Email: email, Role: role})
}

// PrincipalFrom reports the authenticated caller, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	p, ok := PrincipalFrom(ctx)
	return p.UserID, ok
}

func GetUserEmailFromContext(ctx context.Context) string {
	p, _ := PrincipalFrom(ctx)
	return p.Email
}

func GetUserRoleFromContext(ctx context.Context) string {
	p, _ := PrincipalFrom(ctx)
	return p.Role
}
