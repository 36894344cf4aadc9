// Package domain defines the append-only audit trail domain model.
//
// Audit entries record "who did what to which entity", keyed by project.
// They are never mutated or deleted and are displayed newest first.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of entity an audit entry refers to.
type EntityType string

const (
	EntityPermission EntityType = "permission"
	EntityRole       EntityType = "role"
	EntityAPIKey     EntityType = "api_key"
	EntityProject    EntityType = "project"
)

// Action identifies what happened to the entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionGranted Action = "granted"
	ActionRevoked Action = "revoked"
)

// AuditLog is one immutable audit trail entry.
// UserID is the acting operator when the caller identity is known; nil for
// unattributed (machine or CLI) mutations.
type AuditLog struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	UserID     *uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     Action
	Metadata   map[string]any
	CreatedAt  time.Time
}
