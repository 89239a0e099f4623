package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleLecturer        Role = "lecturer"
	RoleAcademicManager Role = "academic_manager"
	RoleHR              Role = "hr"
)

// Capability is an action a role may be permitted to perform.
type Capability uint8

const (
	CapSubmitClaim Capability = iota + 1
	CapViewOwnClaims
	CapViewPendingClaims
	CapViewDecidedClaims
	CapDecideClaim
	CapViewSupportingDocument
	CapIssueInvoice
	CapViewInvoices
	CapGenerateReport
	CapViewReports
)

var capabilities = map[Role]map[Capability]bool{
	RoleLecturer: {
		CapSubmitClaim:            true,
		CapViewOwnClaims:          true,
		CapViewSupportingDocument: true,
	},
	RoleAcademicManager: {
		CapViewPendingClaims:      true,
		CapDecideClaim:            true,
		CapViewSupportingDocument: true,
	},
	RoleHR: {
		CapViewPendingClaims:      true,
		CapViewDecidedClaims:      true,
		CapDecideClaim:            true,
		CapViewSupportingDocument: true,
		CapIssueInvoice:           true,
		CapViewInvoices:           true,
		CapGenerateReport:         true,
		CapViewReports:            true,
	},
}

// Can reports whether the role holds the capability. Unknown roles hold none.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

func (r Role) DisplayName() string {
	switch r {
	case RoleLecturer:
		return "Lecturer"
	case RoleAcademicManager:
		return "Academic Manager"
	case RoleHR:
		return "HR"
	}
	return string(r)
}

// ParseRole accepts the canonical value as well as the display name,
// case-insensitively, with spaces or dashes in place of underscores.
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "lecturer":
		return RoleLecturer, nil
	case "academic_manager", "manager":
		return RoleAcademicManager, nil
	case "hr", "human_resources":
		return RoleHR, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
