package model

import (
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ActorContext identifies the acting user for a workflow operation. Every
// workflow function takes it as an explicit parameter; there is no ambient
// session state in the domain layer.
type ActorContext struct {
	UserID   types.UserID
	Role     types.Role
	TenantID string
}

// Validate checks if the actor context is valid
func (a ActorContext) Validate() error {
	if a.UserID == "" {
		return goerr.New("actor user ID is required")
	}
	if !a.Role.IsValid() {
		return goerr.New("invalid actor role", goerr.V("role", a.Role))
	}
	return nil
}

// IsAdmin reports whether the actor holds the admin role.
func (a ActorContext) IsAdmin() bool {
	return a.Role == types.RoleAdmin
}
