package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotApproved     = errors.New("account not approved")
)

const (
	RoleAdmin  = "admin"
	RolePlayer = "player"

	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type AuthUser struct {
	ID             int64
	Name           string
	Email          string
	Role           string
	ApprovalStatus string
	Timezone       string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether user is a non-nil admin.
func IsAdmin(user *AuthUser) bool {
	return user != nil && user.Role == RoleAdmin
}

// IsApproved reports whether user may use the app. Admins are always approved.
func IsApproved(user *AuthUser) bool {
	if user == nil {
		return false
	}
	return IsAdmin(user) || user.ApprovalStatus == ApprovalApproved
}

// RequireApproved returns ErrUnauthenticated without a user and
// ErrNotApproved for pending or rejected accounts.
func RequireApproved(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !IsApproved(user) {
		return ErrNotApproved
	}
	return nil
}

// RequireAdmin returns ErrUnauthenticated without a user and ErrForbidden for
// non-admins.
func RequireAdmin(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !IsAdmin(user) {
		return ErrForbidden
	}
	return nil
}
