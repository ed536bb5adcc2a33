// Package rbac decides what each party to a contract may do with it.
package rbac

import (
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/models"
)

// Role constants
const (
	RoleCreator      = "creator"
	RoleCounterparty = "counterparty" // the user who answered the contract
	RoleViewer       = "viewer"       // anyone else, including a counterparty who has not answered yet
)

// Permission constants
const (
	PermViewContract = "view_contract"
	PermRespond      = "respond"
	PermViewEscrow   = "view_escrow"
	PermViewHistory  = "view_history"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleCreator: {
		PermViewContract, PermViewEscrow, PermViewHistory,
		// Creator CANNOT: PermRespond
	},
	RoleCounterparty: {
		PermViewContract, PermViewEscrow, PermViewHistory,
	},
	RoleViewer: {
		PermViewContract, PermRespond,
	},
}

// ContractRole returns userID's role on c. The pending counterparty is not
// stored on the contract, so until someone answers it every non-creator is a
// viewer.
func ContractRole(c *models.Contract, userID uuid.UUID) string {
	switch {
	case c.CreatedBy == userID:
		return RoleCreator
	case c.AgreedBy != nil && *c.AgreedBy == userID:
		return RoleCounterparty
	}
	return RoleViewer
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Can reports whether userID holds permission on c.
func Can(c *models.Contract, userID uuid.UUID, permission string) bool {
	return HasPermission(ContractRole(c, userID), permission)
}

// IsFinancialOperation checks if permission exposes money movements.
func IsFinancialOperation(permission string) bool {
	return permission == PermViewEscrow
}
