package domain

import (
	"context"

	"github.com/google/uuid"
)

// userIDKey is the context key for the acting operator's id.
type userIDKey struct{}

// WithUserID returns a context carrying the acting operator's id.
// Set by the HTTP layer from the identity provider's caller identity.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext extracts the acting operator's id, if present.
func UserIDFromContext(ctx context.Context) *uuid.UUID {
	if userID, ok := ctx.Value(userIDKey{}).(uuid.UUID); ok {
		return &userID
	}
	return nil
}
