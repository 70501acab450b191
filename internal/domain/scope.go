package domain

import (
	"slices"
	"strings"
)

// RequestScope is the slice of a request that visibility and eligibility
// rules look at.
type RequestScope struct {
	RequesterID        string
	TeamID             string
	RequiredApprovers  []ApproverRole
	ApproverAssignment Assignment
}

func (s RequestScope) Requires(role ApproverRole) bool {
	return slices.Contains(s.RequiredApprovers, role)
}

type ViewScope string

const (
	ScopeAll      ViewScope = "all"
	ScopeOwned    ViewScope = "owned"
	ScopeAssigned ViewScope = "assigned"
)

// ViewFilter is the store-level filter produced by the authorization gate.
//
// For ScopeAssigned a request matches when it requires Role and, if any of
// TeamID, Assignee or AssigneeID is set, at least one of them matches.
type ViewFilter struct {
	Scope      ViewScope
	OwnerID    string
	Role       ApproverRole
	TeamID     string
	Assignee   string
	AssigneeID string
}

func OwnedBy(id string) ViewFilter {
	return ViewFilter{Scope: ScopeOwned, OwnerID: id}
}

func AllRequests() ViewFilter {
	return ViewFilter{Scope: ScopeAll}
}

// Narrowed reports whether the filter carries team or assignee constraints.
func (f ViewFilter) Narrowed() bool {
	return f.TeamID != "" || f.Assignee != "" || f.AssigneeID != ""
}

func (f ViewFilter) Matches(s RequestScope) bool {
	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeOwned:
		return f.OwnerID != "" && s.RequesterID == f.OwnerID
	case ScopeAssigned:
		if !s.Requires(f.Role) {
			return false
		}
		if !f.Narrowed() {
			return true
		}
		if f.TeamID != "" && s.TeamID == f.TeamID {
			return true
		}
		named := s.ApproverAssignment.Named(f.Role)
		if named == "" {
			return false
		}
		return (f.Assignee != "" && strings.EqualFold(named, f.Assignee)) ||
			(f.AssigneeID != "" && strings.EqualFold(named, f.AssigneeID))
	default:
		return false
	}
}
